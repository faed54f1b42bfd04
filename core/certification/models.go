package certification

// Record is one certification in the static catalog.
// Records are loaded once at startup and never mutated; they are safe for
// unsynchronized concurrent reads.
type Record struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Provider     string     `json:"provider"`
	Category     string     `json:"category"`
	Level        string     `json:"level"`
	EarnedDate   string     `json:"earned_date"`
	ExpiryDate   string     `json:"expiry_date"`
	CredentialID string     `json:"credential_id"`
	Status       string     `json:"status"`
	Price        float64    `json:"price"`
	Currency     string     `json:"currency"`
	Duration     string     `json:"duration"`
	ExamType     string     `json:"exam_type"`
	Validity     string     `json:"validity"`
	ExamDetail   ExamDetail `json:"exam_detail"`
}

type ExamDetail struct {
	Questions        int `json:"questions"`
	TimeLimitMinutes int `json:"time_limit_minutes"`
	PassingScore     int `json:"passing_score"`
}

// Catalog is the loaded collection of certification records.
type Catalog []Record

// GetByID returns the record with the given identifier, if any.
func (c Catalog) GetByID(id string) (Record, bool) {
	for _, rec := range c {
		if rec.ID == id {
			return rec, true
		}
	}
	return Record{}, false
}
