package certification

import "strings"

// domainKeywords pre-filters free-text messages: a message mentioning none of
// these gets no certification context at all.
var domainKeywords = []string{
	// intent
	"certification", "certificate", "certified", "credential", "exam", "badge",
	// providers
	"aws", "amazon", "azure", "microsoft", "google", "gcp", "cisco", "comptia",
	"oracle", "kubernetes", "cncf", "isc2", "pmi", "red hat", "redhat",
	// domains
	"cloud", "security", "network", "devops", "architect", "developer", "data",
}

// MentionsCertification reports whether msg matches the domain keyword pre-filter.
func MentionsCertification(msg string) bool {
	lmsg := strings.ToLower(msg)
	for _, kw := range domainKeywords {
		if strings.Contains(lmsg, kw) {
			return true
		}
	}
	return false
}

// FindRelevant selects the catalog records relevant to a message.
//
// A non-empty certificationID short-circuits keyword matching entirely: the
// result is the single record with that identifier, or nothing if the lookup
// misses. Otherwise the message goes through the keyword pre-filter and, when
// it passes, every record whose name, provider or category is a
// case-insensitive substring of the message is returned, in catalog order.
// A broad message ("AWS") legitimately fans out to many records.
func FindRelevant(message, certificationID string, catalog Catalog) []Record {
	if certificationID != "" {
		if rec, ok := catalog.GetByID(certificationID); ok {
			return []Record{rec}
		}
		return nil
	}

	if !MentionsCertification(message) {
		return nil
	}

	lmsg := strings.ToLower(message)
	var matched []Record
	for _, rec := range catalog {
		if containsField(lmsg, rec.Name) ||
			containsField(lmsg, rec.Provider) ||
			containsField(lmsg, rec.Category) {
			matched = append(matched, rec)
		}
	}
	return matched
}

func containsField(lmsg, field string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(lmsg, strings.ToLower(field))
}
