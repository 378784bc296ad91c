// Package filters turns optional list parameters into a conjunctive
// predicate plus ordering, rendered either as gorm clauses or as a bson
// document filter.
package filters

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Field names one attribute in both stores: the SQL column and the
// document key.
type Field struct {
	Column string
	Key    string
}

var (
	TaskOwner       = Field{Column: "user_id", Key: "userId"}
	TaskStatus      = Field{Column: "status", Key: "status"}
	TaskPriority    = Field{Column: "priority", Key: "priority"}
	TaskCategory    = Field{Column: "category", Key: "category"}
	TaskTitle       = Field{Column: "title", Key: "title"}
	TaskDescription = Field{Column: "description", Key: "description"}
	TaskDueDate     = Field{Column: "due_date", Key: "dueDate"}

	AppointmentPatient  = Field{Column: "patient_id", Key: "patient"}
	AppointmentDoctor   = Field{Column: "doctor_id", Key: "doctor"}
	AppointmentDateTime = Field{Column: "date_time", Key: "dateTime"}
	AppointmentStatus   = Field{Column: "status", Key: "status"}
	AppointmentType     = Field{Column: "type", Key: "type"}

	DoctorSpecialization = Field{Column: "specialization", Key: "specialization"}
	DoctorAccepting      = Field{Column: "accepting_new_patients", Key: "acceptingNewPatients"}
	DoctorRating         = Field{Column: "rating", Key: "rating"}

	CreatedAt = Field{Column: "created_at", Key: "createdAt"}
)

type Clause interface {
	isClause()
}

// Eq matches a field exactly.
type Eq struct {
	Field Field
	Value interface{}
}

// EqFold matches a text field exactly, ignoring case.
type EqFold struct {
	Field Field
	Value string
}

// Search matches when any of Fields contains Term, ignoring case. Term is
// treated as literal text.
type Search struct {
	Fields []Field
	Term   string
}

// Range bounds a time field; nil ends are open. From and To are inclusive,
// Before is exclusive.
type Range struct {
	Field  Field
	From   *time.Time
	To     *time.Time
	Before *time.Time
}

func (Eq) isClause()     {}
func (EqFold) isClause() {}
func (Search) isClause() {}
func (Range) isClause()  {}

type SortKey struct {
	Field     Field
	Desc      bool
	NullsLast bool
	// Ranks orders an enumerated field by weight instead of lexically.
	Ranks map[string]int
}

type Query struct {
	Clauses []Clause
	Sort    []SortKey
}

func (q Query) With(c Clause) Query {
	q.Clauses = append(append([]Clause(nil), q.Clauses...), c)
	return q
}

func (q Query) ApplyGorm(db *gorm.DB) *gorm.DB {
	for _, c := range q.Clauses {
		switch c := c.(type) {
		case Eq:
			db = db.Where(clause.Eq{Column: clause.Column{Name: c.Field.Column}, Value: c.Value})
		case EqFold:
			db = db.Where(clause.Expr{
				SQL:  "LOWER(?) = LOWER(?)",
				Vars: []interface{}{clause.Column{Name: c.Field.Column}, c.Value},
			})
		case Search:
			// Fold both sides in the database; sqlite's LOWER covers ASCII only.
			pattern := "%" + escapeLike(c.Term) + "%"
			exprs := make([]clause.Expression, 0, len(c.Fields))
			for _, f := range c.Fields {
				exprs = append(exprs, clause.Expr{
					SQL:  `LOWER(?) LIKE LOWER(?) ESCAPE '\'`,
					Vars: []interface{}{clause.Column{Name: f.Column}, pattern},
				})
			}
			db = db.Where(clause.Or(exprs...))
		case Range:
			if c.From != nil {
				db = db.Where(clause.Gte{Column: clause.Column{Name: c.Field.Column}, Value: *c.From})
			}
			if c.To != nil {
				db = db.Where(clause.Lte{Column: clause.Column{Name: c.Field.Column}, Value: *c.To})
			}
			if c.Before != nil {
				db = db.Where(clause.Lt{Column: clause.Column{Name: c.Field.Column}, Value: *c.Before})
			}
		}
	}
	for _, s := range q.Sort {
		if s.NullsLast {
			db = db.Order(s.Field.Column + " IS NULL")
		}
		expr := s.Field.Column
		if s.Ranks != nil {
			expr = rankCase(s.Field.Column, s.Ranks)
		}
		if s.Desc {
			db = db.Order(expr + " DESC")
		} else {
			db = db.Order(expr + " ASC")
		}
	}
	return db
}

// BSON renders the conjunction as a document filter. Document stores keep
// identifiers as strings.
func (q Query) BSON() bson.D {
	filter := bson.D{}
	var and bson.A
	for _, c := range q.Clauses {
		switch c := c.(type) {
		case Eq:
			filter = append(filter, bson.E{Key: c.Field.Key, Value: docValue(c.Value)})
		case EqFold:
			filter = append(filter, bson.E{Key: c.Field.Key, Value: bson.D{
				{Key: "$regex", Value: "^" + regexp.QuoteMeta(c.Value) + "$"},
				{Key: "$options", Value: "i"},
			}})
		case Search:
			or := bson.A{}
			for _, f := range c.Fields {
				or = append(or, bson.D{{Key: f.Key, Value: bson.D{
					{Key: "$regex", Value: regexp.QuoteMeta(c.Term)},
					{Key: "$options", Value: "i"},
				}}})
			}
			and = append(and, bson.D{{Key: "$or", Value: or}})
		case Range:
			bounds := bson.D{}
			if c.From != nil {
				bounds = append(bounds, bson.E{Key: "$gte", Value: *c.From})
			}
			if c.To != nil {
				bounds = append(bounds, bson.E{Key: "$lte", Value: *c.To})
			}
			if c.Before != nil {
				bounds = append(bounds, bson.E{Key: "$lt", Value: *c.Before})
			}
			if len(bounds) > 0 {
				filter = append(filter, bson.E{Key: c.Field.Key, Value: bounds})
			}
		}
	}
	if len(and) > 0 {
		filter = append(filter, bson.E{Key: "$and", Value: and})
	}
	return filter
}

// SortBSON expects documents to carry "<key>Null" flags for nulls-last keys
// and "<key>Rank" weights for ranked keys.
func (q Query) SortBSON() bson.D {
	out := bson.D{}
	for _, s := range q.Sort {
		if s.NullsLast {
			out = append(out, bson.E{Key: s.Field.Key + "Null", Value: 1})
		}
		key := s.Field.Key
		if s.Ranks != nil {
			key += "Rank"
		}
		dir := 1
		if s.Desc {
			dir = -1
		}
		out = append(out, bson.E{Key: key, Value: dir})
	}
	return out
}

func rankCase(column string, ranks map[string]int) string {
	values := make([]string, 0, len(ranks))
	for v := range ranks {
		values = append(values, v)
	}
	sort.Strings(values)

	var b strings.Builder
	b.WriteString("CASE " + column)
	for _, v := range values {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", strings.ReplaceAll(v, "'", "''"), ranks[v])
	}
	b.WriteString(" ELSE 0 END")
	return b.String()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func docValue(v interface{}) interface{} {
	switch v := v.(type) {
	case uuid.UUID:
		return v.String()
	case fmt.Stringer:
		return v.String()
	}
	return v
}
