package databases

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/police-fir-api/models"
	"github.com/linesmerrill/police-fir-api/query"
)

const (
	firName        = "firs"
	firHistoryName = "fir_history"
	counterName    = "counters"
	snapshotName   = "dashboard_snapshots"
)

type firDatabase struct {
	db DatabaseHelper
}

// NewFIRDatabase initializes a mongo backed FIRStore with the provided db connection.
// Transactions need the server to run as a replica set.
func NewFIRDatabase(db DatabaseHelper) FIRStore {
	return &firDatabase{
		db: db,
	}
}

// EnsureFIRIndexes creates the indexes the FIR store relies on. The unique
// firNumber index is what turns a numbering collision into ErrConflict.
func EnsureFIRIndexes(ctx context.Context, db DatabaseHelper) error {
	indexes := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{firName, mongo.IndexModel{Keys: bson.D{{Key: "firNumber", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{firName, mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{firName, mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}}}},
		{firHistoryName, mongo.IndexModel{Keys: bson.D{{Key: "firId", Value: 1}, {Key: "timestamp", Value: -1}}}},
	}
	for _, idx := range indexes {
		if _, err := db.Collection(idx.collection).CreateIndex(ctx, idx.model); err != nil {
			return errors.Wrapf(err, "failed to create index on %s", idx.collection)
		}
	}
	return nil
}

func (f *firDatabase) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx FIRTx) error) error {
	session, err := f.db.Client().StartSession()
	if err != nil {
		return errors.Wrap(err, "failed to start session")
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc context.Context) (interface{}, error) {
		return nil, fn(sc, &firTx{db: f.db})
	})
	return err
}

func (f *firDatabase) FindByID(ctx context.Context, id int64) (*models.FIR, error) {
	return findFIR(ctx, f.db, bson.M{"_id": id})
}

func (f *firDatabase) FindByNumber(ctx context.Context, firNumber string) (*models.FIR, error) {
	return findFIR(ctx, f.db, bson.M{"firNumber": firNumber})
}

func (f *firDatabase) Find(ctx context.Context, criterion query.Criterion, sort query.Sort) ([]models.FIR, error) {
	curr, err := f.db.Collection(firName).Find(ctx, criterion.BSON(), options.Find().SetSort(sort.BSON()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find firs")
	}
	defer curr.Close(ctx)

	firs := []models.FIR{}
	if err = curr.All(ctx, &firs); err != nil {
		return nil, errors.Wrap(err, "failed to decode firs")
	}
	return firs, nil
}

func (f *firDatabase) FindPage(ctx context.Context, criterion query.Criterion, sort query.Sort, page query.Pageable) ([]models.FIR, int64, error) {
	filter := criterion.BSON()
	total, err := f.db.Collection(firName).CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to count firs")
	}

	curr, err := f.db.Collection(firName).Find(ctx, filter, newMongoPaginate(page).getPaginatedOpts(sort))
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to find firs")
	}
	defer curr.Close(ctx)

	firs := []models.FIR{}
	if err = curr.All(ctx, &firs); err != nil {
		return nil, 0, errors.Wrap(err, "failed to decode firs")
	}
	return firs, total, nil
}

func (f *firDatabase) Count(ctx context.Context, criterion query.Criterion) (int64, error) {
	count, err := f.db.Collection(firName).CountDocuments(ctx, criterion.BSON())
	if err != nil {
		return 0, errors.Wrap(err, "failed to count firs")
	}
	return count, nil
}

func (f *firDatabase) CountByIncidentType(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$incidentType"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	curr, err := f.db.Collection(firName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "failed to group firs by incident type")
	}
	defer curr.Close(ctx)

	var rows []struct {
		IncidentType string `bson:"_id"`
		Count        int64  `bson:"count"`
	}
	if err = curr.All(ctx, &rows); err != nil {
		return nil, errors.Wrap(err, "failed to decode incident type counts")
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.IncidentType] = row.Count
	}
	return counts, nil
}

func (f *firDatabase) History(ctx context.Context, firID int64) ([]models.FIRHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
	curr, err := f.db.Collection(firHistoryName).Find(ctx, bson.M{"firId": firID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find fir history")
	}
	defer curr.Close(ctx)

	history := []models.FIRHistory{}
	if err = curr.All(ctx, &history); err != nil {
		return nil, errors.Wrap(err, "failed to decode fir history")
	}
	return history, nil
}

func (f *firDatabase) NextSequence(ctx context.Context, name string) (int64, error) {
	return nextSequence(ctx, f.db, name)
}

func (f *firDatabase) SaveSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error {
	if _, err := f.db.Collection(snapshotName).InsertOne(ctx, snapshot); err != nil {
		return errors.Wrap(err, "failed to save dashboard snapshot")
	}
	return nil
}

// firTx issues its operations with the session context handed to it by
// WithTransaction, so they all belong to the same server side transaction
type firTx struct {
	db DatabaseHelper
}

func (t *firTx) FindByID(ctx context.Context, id int64) (*models.FIR, error) {
	return findFIR(ctx, t.db, bson.M{"_id": id})
}

func (t *firTx) NextSequence(ctx context.Context, name string) (int64, error) {
	return nextSequence(ctx, t.db, name)
}

func (t *firTx) InsertFIR(ctx context.Context, fir *models.FIR) error {
	if fir.ID == 0 {
		id, err := nextSequence(ctx, t.db, firIDSequence)
		if err != nil {
			return err
		}
		fir.ID = id
	}
	if _, err := t.db.Collection(firName).InsertOne(ctx, fir); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Wrapf(ErrConflict, "fir number %s", fir.FIRNumber)
		}
		return errors.Wrap(err, "failed to insert fir")
	}
	return nil
}

func (t *firTx) UpdateFIR(ctx context.Context, fir *models.FIR) error {
	matched, err := t.db.Collection(firName).ReplaceOne(ctx, bson.M{"_id": fir.ID}, fir)
	if err != nil {
		return errors.Wrap(err, "failed to update fir")
	}
	if matched == 0 {
		return errors.Wrapf(ErrNotFound, "fir %d", fir.ID)
	}
	return nil
}

func (t *firTx) InsertHistory(ctx context.Context, entry *models.FIRHistory) error {
	n, err := t.db.Collection(firName).CountDocuments(ctx, bson.M{"_id": entry.FIRID})
	if err != nil {
		return errors.Wrap(err, "failed to check fir for history entry")
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "fir %d", entry.FIRID)
	}
	if entry.ID == 0 {
		id, err := nextSequence(ctx, t.db, historyIDSequence)
		if err != nil {
			return err
		}
		entry.ID = id
	}
	if _, err := t.db.Collection(firHistoryName).InsertOne(ctx, entry); err != nil {
		return errors.Wrap(err, "failed to insert fir history")
	}
	return nil
}

func findFIR(ctx context.Context, db DatabaseHelper, filter bson.M) (*models.FIR, error) {
	fir := &models.FIR{}
	err := db.Collection(firName).FindOne(ctx, filter).Decode(fir)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.Wrap(ErrNotFound, "fir")
		}
		return nil, errors.Wrap(err, "failed to find fir")
	}
	return fir, nil
}

// nextSequence atomically increments the named counter and returns the new
// value. The first call for a name creates the counter at 1.
func nextSequence(ctx context.Context, db DatabaseHelper, name string) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	var err error
	// two concurrent upserts of a fresh counter can race on _id; the loser
	// sees a duplicate key and finds the document on the second attempt
	for attempt := 0; attempt < 2; attempt++ {
		err = db.Collection(counterName).
			FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": int64(1)}}, opts).
			Decode(&counter)
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		return 0, errors.Wrapf(err, "failed to advance sequence %s", name)
	}
	return counter.Seq, nil
}
