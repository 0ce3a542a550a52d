package tables

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo maps each table onto a collection of the same name. The row "id"
// doubles as the document _id.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

var mongoOps = map[Op]string{
	Neq: "$ne",
	Gt:  "$gt",
	Gte: "$gte",
	Lt:  "$lt",
	Lte: "$lte",
	In:  "$in",
}

func (m *Mongo) Select(ctx context.Context, table string, q Query) ([]Row, error) {
	filter, err := mongoFilter(q.Filters)
	if err != nil {
		return nil, err
	}

	opts := options.Find()
	if len(q.Order) > 0 {
		sortDoc := bson.D{}
		for _, o := range q.Order {
			dir := 1
			if o.Desc {
				dir = -1
			}
			sortDoc = append(sortDoc, bson.E{Key: mongoColumn(o.Column), Value: dir})
		}
		opts.SetSort(sortDoc)
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if len(q.Columns) > 0 {
		proj := bson.M{"_id": 1}
		for _, c := range q.Columns {
			proj[mongoColumn(c)] = 1
		}
		opts.SetProjection(proj)
	}

	cursor, err := m.db.Collection(table).Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Annotatef(err, "selecting from %s", table)
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Annotatef(err, "decoding %s", table)
	}

	out := make([]Row, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromDocument(d))
	}
	return out, nil
}

func (m *Mongo) Insert(ctx context.Context, table string, rows ...Row) ([]Row, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	docs := make([]interface{}, 0, len(rows))
	stored := make([]Row, 0, len(rows))
	for _, r := range rows {
		row := r.Clone()
		if id, ok := row["id"]; !ok || id == nil || id == "" {
			row["id"] = uuid.NewString()
		}
		if _, ok := row["created_at"]; !ok {
			row["created_at"] = time.Now().UTC()
		}
		docs = append(docs, toDocument(row))
		stored = append(stored, row)
	}

	if _, err := m.db.Collection(table).InsertMany(ctx, docs); err != nil {
		return nil, errors.Annotatef(err, "inserting into %s", table)
	}
	return stored, nil
}

func (m *Mongo) Update(ctx context.Context, table string, patch Row, filters ...Filter) (int, error) {
	filter, err := mongoFilter(filters)
	if err != nil {
		return 0, err
	}
	set := bson.M{}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		set[k] = toBSONValue(v)
	}
	result, err := m.db.Collection(table).UpdateMany(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, errors.Annotatef(err, "updating %s", table)
	}
	return int(result.MatchedCount), nil
}

func (m *Mongo) Delete(ctx context.Context, table string, filters ...Filter) (int, error) {
	filter, err := mongoFilter(filters)
	if err != nil {
		return 0, err
	}
	result, err := m.db.Collection(table).DeleteMany(ctx, filter)
	if err != nil {
		return 0, errors.Annotatef(err, "deleting from %s", table)
	}
	return int(result.DeletedCount), nil
}

func mongoColumn(c string) string {
	if c == "id" {
		return "_id"
	}
	return c
}

func mongoFilter(filters []Filter) (bson.M, error) {
	out := bson.M{}
	for _, f := range filters {
		if err := validOp(f.Op); err != nil {
			return nil, err
		}
		col := mongoColumn(f.Column)
		if f.Op == Eq {
			out[col] = toBSONValue(f.Value)
			continue
		}
		cond, _ := out[col].(bson.M)
		if cond == nil {
			cond = bson.M{}
		}
		cond[mongoOps[f.Op]] = toBSONValue(f.Value)
		out[col] = cond
	}
	return out, nil
}

func toDocument(r Row) bson.M {
	doc := bson.M{}
	for k, v := range r {
		doc[mongoColumn(k)] = toBSONValue(v)
	}
	return doc
}

func toBSONValue(v any) any {
	switch t := v.(type) {
	case decimal.Decimal:
		d, err := primitive.ParseDecimal128(t.String())
		if err != nil {
			return t.String()
		}
		return d
	case []decimal.Decimal:
		out := make([]any, len(t))
		for i, d := range t {
			out[i] = toBSONValue(d)
		}
		return out
	}
	return v
}

func fromDocument(doc bson.M) Row {
	r := Row{}
	for k, v := range doc {
		if k == "_id" {
			k = "id"
		}
		switch t := v.(type) {
		case primitive.Decimal128:
			if d, err := decimal.NewFromString(t.String()); err == nil {
				r[k] = d
				continue
			}
		case primitive.DateTime:
			r[k] = t.Time().UTC()
			continue
		case primitive.ObjectID:
			r[k] = t.Hex()
			continue
		}
		r[k] = v
	}
	return r
}
