// Package query holds the store-neutral building blocks used to describe a
// filtered FIR lookup: composable criteria, a sort order and a page request.
// Every criterion can render itself as a mongo filter and can also be
// evaluated directly against a record, so the same compiled predicate drives
// both the mongo store and the in-memory store.
package query

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Document is anything whose fields can be read by their bson name
type Document interface {
	Field(name string) interface{}
}

// Criterion is a boolean condition over a Document
type Criterion interface {
	Matches(doc Document) bool
	BSON() bson.M
}

type all struct{}

// All matches every document
func All() Criterion { return all{} }

func (all) Matches(Document) bool { return true }
func (all) BSON() bson.M          { return bson.M{} }

type containsFold struct {
	field string
	value string
}

// ContainsFold matches when the string field contains value, ignoring case.
// value is matched literally, regex metacharacters carry no meaning.
func ContainsFold(field, value string) Criterion {
	return containsFold{field: field, value: value}
}

func (c containsFold) Matches(doc Document) bool {
	s, ok := doc.Field(c.field).(string)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(c.value))
}

func (c containsFold) BSON() bson.M {
	return bson.M{c.field: bson.M{"$regex": regexp.QuoteMeta(c.value), "$options": "i"}}
}

type equals struct {
	field string
	value interface{}
}

// Eq matches when the field equals value exactly. Values must be comparable.
func Eq(field string, value interface{}) Criterion {
	return equals{field: field, value: value}
}

func (e equals) Matches(doc Document) bool {
	return doc.Field(e.field) == e.value
}

func (e equals) BSON() bson.M {
	return bson.M{e.field: e.value}
}

type timeRange struct {
	field string
	from  time.Time
	to    time.Time
}

// Between matches time fields inside the half open interval [from, to)
func Between(field string, from, to time.Time) Criterion {
	return timeRange{field: field, from: from, to: to}
}

func (r timeRange) Matches(doc Document) bool {
	t, ok := doc.Field(r.field).(time.Time)
	if !ok {
		return false
	}
	return !t.Before(r.from) && t.Before(r.to)
}

func (r timeRange) BSON() bson.M {
	return bson.M{r.field: bson.M{"$gte": r.from, "$lt": r.to}}
}

type and []Criterion

// And matches when every criterion matches. With no criteria it matches all.
func And(cs ...Criterion) Criterion {
	switch len(cs) {
	case 0:
		return All()
	case 1:
		return cs[0]
	}
	return and(cs)
}

func (a and) Matches(doc Document) bool {
	for _, c := range a {
		if !c.Matches(doc) {
			return false
		}
	}
	return true
}

func (a and) BSON() bson.M {
	parts := make([]bson.M, 0, len(a))
	for _, c := range a {
		parts = append(parts, c.BSON())
	}
	return bson.M{"$and": parts}
}

type or []Criterion

// Or matches when at least one criterion matches. With no criteria it
// matches nothing.
func Or(cs ...Criterion) Criterion {
	if len(cs) == 1 {
		return cs[0]
	}
	return or(cs)
}

func (o or) Matches(doc Document) bool {
	for _, c := range o {
		if c.Matches(doc) {
			return true
		}
	}
	return false
}

func (o or) BSON() bson.M {
	if len(o) == 0 {
		return bson.M{"$nor": []bson.M{{}}}
	}
	parts := make([]bson.M, 0, len(o))
	for _, c := range o {
		parts = append(parts, c.BSON())
	}
	return bson.M{"$or": parts}
}
