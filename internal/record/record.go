package record

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// NoID marks a record that has not been persisted.
// GetRecordByName also returns it when no row matches.
const NoID int64 = -1

// FieldCount is the number of text fields a record carries.
const FieldCount = 4

// ErrTooFewFields is returned by FromFields when fewer than FieldCount
// values are supplied.
var ErrTooFewFields = errors.New("record: too few fields")

// Record is one contact entry.
//
// Records are values: the store hydrates fresh copies from result rows and
// updates replace all four text fields of a row at once.
type Record struct {
	ID        int64  `json:"id" yaml:"id"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	Email     string `json:"email" yaml:"email"`
	Telephone string `json:"telephone" yaml:"telephone"`
}

// New creates an unpersisted record with the given fields.
func New(firstName, lastName, email, telephone string) Record {
	return Record{
		ID:        NoID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Telephone: telephone,
	}
}

// Empty returns the not-found value: ID is NoID and every field is empty.
func Empty() Record {
	return Record{ID: NoID}
}

// FromFields maps values positionally to first name, last name, email and
// telephone. Values past the fourth are ignored.
func FromFields(fields []string) (Record, error) {
	if len(fields) < FieldCount {
		return Empty(), fmt.Errorf("%w: need %d, got %d", ErrTooFewFields, FieldCount, len(fields))
	}
	return New(fields[0], fields[1], fields[2], fields[3]), nil
}

// Fields returns the text fields in binding order.
func (r Record) Fields() []string {
	return []string{r.FirstName, r.LastName, r.Email, r.Telephone}
}

// Persisted reports whether the record carries a store-assigned id.
func (r Record) Persisted() bool {
	return r.ID != NoID
}

// SameFields reports whether both records hold identical text fields.
// IDs are not compared.
func (r Record) SameFields(other Record) bool {
	return r.FirstName == other.FirstName &&
		r.LastName == other.LastName &&
		r.Email == other.Email &&
		r.Telephone == other.Telephone
}

// Format writes the labelled block used by the shell.
func (r Record) Format(w io.Writer) error {
	_, err := fmt.Fprintf(w, "#%d:\nFirst name: %s\nLast name: %s\nEmail: %s\nTelephone: %s\n",
		r.ID, r.FirstName, r.LastName, r.Email, r.Telephone)
	return err
}

func (r Record) String() string {
	var b strings.Builder
	_ = r.Format(&b)
	return b.String()
}
