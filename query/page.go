package query

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// DefaultPageSize is used when a caller asks for a page size below one
const DefaultPageSize = 5

// Sort orders results by a single field
type Sort struct {
	Field string
	Desc  bool
}

// ByCreatedAtDesc is the order every FIR listing uses
var ByCreatedAtDesc = Sort{Field: "createdAt", Desc: true}

// BSON renders the sort as a mongo sort document. The _id tie breaker keeps
// paging stable when two records share the sort value.
func (s Sort) BSON() bson.D {
	dir := 1
	if s.Desc {
		dir = -1
	}
	if s.Field == "_id" {
		return bson.D{{Key: "_id", Value: dir}}
	}
	return bson.D{{Key: s.Field, Value: dir}, {Key: "_id", Value: dir}}
}

// Less reports whether a sorts before b
func (s Sort) Less(a, b Document) bool {
	c := compare(a.Field(s.Field), b.Field(s.Field))
	if c == 0 {
		c = compare(a.Field("_id"), b.Field("_id"))
	}
	if s.Desc {
		return c > 0
	}
	return c < 0
}

func compare(a, b interface{}) int {
	switch av := a.(type) {
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Compare(bv)
	case int64:
		bv, _ := b.(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case string:
		bv, _ := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	}
	return 0
}

// Pageable is a zero based page request
type Pageable struct {
	Page int
	Size int
}

// NewPageable clamps page to zero or more and replaces sizes below one with
// DefaultPageSize
func NewPageable(page, size int) Pageable {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return Pageable{Page: page, Size: size}
}

// Offset is the number of records skipped before this page
func (p Pageable) Offset() int64 {
	return int64(p.Page) * int64(p.Size)
}

// PageMeta describes where a page sits in the full result set
type PageMeta struct {
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
	HasNext       bool
	HasPrevious   bool
	IsFirst       bool
	IsLast        bool
}

// Meta computes the paging metadata for this request given the total
// number of matching records
func (p Pageable) Meta(total int64) PageMeta {
	size := int64(p.Size)
	totalPages := int((total + size - 1) / size)
	hasNext := p.Page+1 < totalPages
	hasPrevious := p.Page > 0
	return PageMeta{
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		HasNext:       hasNext,
		HasPrevious:   hasPrevious,
		IsFirst:       !hasPrevious,
		IsLast:        !hasNext,
	}
}
