package models

// CanonicalHeaders is the fixed, ordered list of field names every persisted
// row carries. This order is the on-disk column order and must not change.
var CanonicalHeaders = []string{
	"note_id", "country", "pick", "grade", "purchase_price", "epq",
	"pmg_cert", "denomination", "year", "serial", "purchase_date",
	"est_value", "est_updated_at", "notes",
}

// RequiredFields are the fields every note must carry a value for.
var RequiredFields = []string{"note_id", "country", "pick", "grade", "purchase_price"}

// Note is a single currency note in the collection, keyed by NoteID.
type Note struct {
	NoteID        string  `json:"note_id"`
	Country       string  `json:"country"`
	Pick          string  `json:"pick"`
	Grade         Numeric `json:"grade"`
	PurchasePrice Numeric `json:"purchase_price"`
	EPQ           string  `json:"epq"`
	PMGCert       string  `json:"pmg_cert"`
	Denomination  string  `json:"denomination"`
	Year          Integer `json:"year"`
	Serial        string  `json:"serial"`
	PurchaseDate  string  `json:"purchase_date"`
	EstValue      Numeric `json:"est_value"`
	EstUpdatedAt  string  `json:"est_updated_at"`
	Notes         string  `json:"notes"`
}

// Fields returns the note's values as text in canonical header order.
// Unset optional fields serialize as empty strings, never as sparse rows.
func (n Note) Fields() []string {
	return []string{
		n.NoteID,
		n.Country,
		n.Pick,
		n.Grade.String(),
		n.PurchasePrice.String(),
		n.EPQ,
		n.PMGCert,
		n.Denomination,
		n.Year.String(),
		n.Serial,
		n.PurchaseDate,
		n.EstValue.String(),
		n.EstUpdatedAt,
		n.Notes,
	}
}

// NoteFromFields builds a Note from textual values in canonical header
// order. Numeric fields are coerced leniently: text that fails to parse is
// kept verbatim rather than rejected.
func NoteFromFields(values []string) Note {
	v := make([]string, len(CanonicalHeaders))
	copy(v, values)
	return Note{
		NoteID:        v[0],
		Country:       v[1],
		Pick:          v[2],
		Grade:         ParseNumeric(v[3]),
		PurchasePrice: ParseNumeric(v[4]),
		EPQ:           v[5],
		PMGCert:       v[6],
		Denomination:  v[7],
		Year:          ParseInteger(v[8]),
		Serial:        v[9],
		PurchaseDate:  v[10],
		EstValue:      ParseNumeric(v[11]),
		EstUpdatedAt:  v[12],
		Notes:         v[13],
	}
}

// Patch is a partial note update. Nil fields are absent from the update and
// leave the stored value untouched; non-nil fields win over the stored value.
type Patch struct {
	NoteID        string
	Country       *string
	Pick          *string
	Grade         *Numeric
	PurchasePrice *Numeric
	EPQ           *string
	PMGCert       *string
	Denomination  *string
	Year          *Integer
	Serial        *string
	PurchaseDate  *string
	EstValue      *Numeric
	EstUpdatedAt  *string
	Notes         *string
}

// Apply merges the patch's present fields over the note.
func (p Patch) Apply(n *Note) {
	if p.NoteID != "" {
		n.NoteID = p.NoteID
	}
	if p.Country != nil {
		n.Country = *p.Country
	}
	if p.Pick != nil {
		n.Pick = *p.Pick
	}
	if p.Grade != nil {
		n.Grade = *p.Grade
	}
	if p.PurchasePrice != nil {
		n.PurchasePrice = *p.PurchasePrice
	}
	if p.EPQ != nil {
		n.EPQ = *p.EPQ
	}
	if p.PMGCert != nil {
		n.PMGCert = *p.PMGCert
	}
	if p.Denomination != nil {
		n.Denomination = *p.Denomination
	}
	if p.Year != nil {
		n.Year = *p.Year
	}
	if p.Serial != nil {
		n.Serial = *p.Serial
	}
	if p.PurchaseDate != nil {
		n.PurchaseDate = *p.PurchaseDate
	}
	if p.EstValue != nil {
		n.EstValue = *p.EstValue
	}
	if p.EstUpdatedAt != nil {
		n.EstUpdatedAt = *p.EstUpdatedAt
	}
	if p.Notes != nil {
		n.Notes = *p.Notes
	}
}

// AsPatch converts a full note into a patch with every field present.
// Used by bulk import, where each row carries the complete field set.
func (n Note) AsPatch() Patch {
	return Patch{
		NoteID:        n.NoteID,
		Country:       &n.Country,
		Pick:          &n.Pick,
		Grade:         &n.Grade,
		PurchasePrice: &n.PurchasePrice,
		EPQ:           &n.EPQ,
		PMGCert:       &n.PMGCert,
		Denomination:  &n.Denomination,
		Year:          &n.Year,
		Serial:        &n.Serial,
		PurchaseDate:  &n.PurchaseDate,
		EstValue:      &n.EstValue,
		EstUpdatedAt:  &n.EstUpdatedAt,
		Notes:         &n.Notes,
	}
}
