package tasting

import "fmt"

// Table is the ordered collection of records loaded from a backing store.
// A record's position is its only identity. Revision fingerprints the stored
// content the table was loaded from and is empty when the store did not
// exist.
//
// Append, Update and Delete return new tables and leave the receiver intact;
// nothing reaches the store until a backend persists the result.
type Table struct {
	Records  []Record
	Revision string
}

// Len returns the number of records.
func (t Table) Len() int {
	return len(t.Records)
}

// Columns returns the declared schema every record conforms to.
func (t Table) Columns() []string {
	return Header()
}

// At returns the record at position i.
func (t Table) At(i int) (Record, error) {
	if err := t.checkIndex(i); err != nil {
		return Record{}, err
	}
	return t.Records[i], nil
}

// Append returns a table with r added at the end.
func (t Table) Append(r Record) Table {
	records := make([]Record, 0, len(t.Records)+1)
	records = append(records, t.Records...)
	records = append(records, r)
	return Table{Records: records, Revision: t.Revision}
}

// Update returns a table with the record at position i replaced by r.
func (t Table) Update(i int, r Record) (Table, error) {
	if err := t.checkIndex(i); err != nil {
		return t, err
	}
	records := append([]Record(nil), t.Records...)
	records[i] = r
	return Table{Records: records, Revision: t.Revision}, nil
}

// Delete returns a table without the record at position i. Later records
// move down by one position.
func (t Table) Delete(i int) (Table, error) {
	if err := t.checkIndex(i); err != nil {
		return t, err
	}
	records := make([]Record, 0, len(t.Records)-1)
	records = append(records, t.Records[:i]...)
	records = append(records, t.Records[i+1:]...)
	return Table{Records: records, Revision: t.Revision}, nil
}

func (t Table) checkIndex(i int) error {
	if i < 0 || i >= len(t.Records) {
		return fmt.Errorf("%w: position %d (table has %d rows)", ErrIndexOutOfRange, i, len(t.Records))
	}
	return nil
}
