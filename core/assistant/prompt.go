package assistant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/academia-hq/academia/core/certification"
)

// Block roles
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// IdentityPrompt is a literal product requirement: the assistant must answer
// identity probes with this exact persona. Do not reword it.
const IdentityPrompt = `You are Aca, the virtual assistant of the Academia university portal. ` +
	`If anyone asks who you are, you must answer exactly: "I am Aca, the Academia campus assistant." ` +
	`You must never claim to be ChatGPT, Gemini, Claude or any other commercial AI product, ` +
	`and you must never deny having a name. ` +
	`Help students, teachers and administrators with questions about the university, ` +
	`its classes and its certification programs.`

const certificationInstruction = `Treat the fields listed above as authoritative. ` +
	`Only supplement with general knowledge for details absent from the data.`

const userContextInstruction = `Adapt your answer to this user.`

// Block is a single role-tagged unit of text contributed to the model input.
type Block struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Compose builds the ordered prompt block sequence for one request:
// the fixed identity block, one system block per matched certification record
// (in matcher order), an optional user-context block, and finally the user's
// message, unmodified. It is a pure function: identical inputs yield
// byte-identical output.
func Compose(matched []certification.Record, userData map[string]interface{}, message string) []Block {
	blocks := make([]Block, 0, len(matched)+3)
	blocks = append(blocks, Block{Role: RoleSystem, Content: IdentityPrompt})

	for _, rec := range matched {
		blocks = append(blocks, Block{Role: RoleSystem, Content: renderRecord(rec)})
	}

	if userData != nil {
		blocks = append(blocks, Block{Role: RoleSystem, Content: renderUserData(userData)})
	}

	blocks = append(blocks, Block{Role: RoleUser, Content: message})
	return blocks
}

func renderRecord(rec certification.Record) string {
	var b strings.Builder
	b.WriteString("Certification data:\n")
	fmt.Fprintf(&b, "- Name: %s\n", rec.Name)
	fmt.Fprintf(&b, "- Provider: %s\n", rec.Provider)
	fmt.Fprintf(&b, "- Category: %s\n", rec.Category)
	fmt.Fprintf(&b, "- Level: %s\n", rec.Level)
	fmt.Fprintf(&b, "- Earned: %s\n", rec.EarnedDate)
	fmt.Fprintf(&b, "- Expires: %s\n", rec.ExpiryDate)
	fmt.Fprintf(&b, "- Credential ID: %s\n", rec.CredentialID)
	fmt.Fprintf(&b, "- Status: %s\n", rec.Status)
	fmt.Fprintf(&b, "- Price: %.2f %s\n", rec.Price, rec.Currency)
	fmt.Fprintf(&b, "- Duration: %s\n", rec.Duration)
	fmt.Fprintf(&b, "- Exam type: %s\n", rec.ExamType)
	fmt.Fprintf(&b, "- Validity: %s\n", rec.Validity)
	fmt.Fprintf(&b, "- Exam: %d questions, %d minutes, passing score %d\n",
		rec.ExamDetail.Questions, rec.ExamDetail.TimeLimitMinutes, rec.ExamDetail.PassingScore)
	b.WriteString(certificationInstruction)
	return b.String()
}

func renderUserData(userData map[string]interface{}) string {
	keys := make([]string, 0, len(userData))
	for k := range userData {
		keys = append(keys, k)
	}
	sort.Strings(keys) // deterministic rendering

	var b strings.Builder
	b.WriteString("About the user:\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %v\n", k, userData[k])
	}
	b.WriteString(userContextInstruction)
	return b.String()
}
