package databases

import (
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/police-fir-api/query"
)

type mongoPaginate struct {
	limit int64
	skip  int64
}

func newMongoPaginate(p query.Pageable) *mongoPaginate {
	return &mongoPaginate{
		limit: int64(p.Size),
		skip:  p.Offset(),
	}
}

func (mp *mongoPaginate) getPaginatedOpts(sort query.Sort) *options.FindOptions {
	return options.Find().
		SetLimit(mp.limit).
		SetSkip(mp.skip).
		SetSort(sort.BSON())
}
