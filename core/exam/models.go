package exam

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/aalimaslam/ace-brainiac-admin/core"
	"github.com/aalimaslam/ace-brainiac-admin/core/lifecycle"
)

// Query parameters
const (
	ParamQuery         = "query"
	ParamStatus        = "status"
	ParamCertification = "certification"
	ParamCreateDate    = "createDate"
	ParamPage          = "page"
	ParamLimit         = "limit"
)

// Raw status codes & their display labels
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"

	LabelDraft     = "Draft"
	LabelPublished = "Published"
)

// Defaults for absent fields
const (
	UntitledName     = "Untitled Test"
	NoDescription    = "No description"
	NoPassPercentage = "N/A"
	DefaultAuthor    = "Admin"
)

// Test is a test ready to be displayed.
type Test struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	Description            string    `json:"description"`
	Status                 string    `json:"status"`
	CertificationAvailable bool      `json:"certificationAvailable"`
	TotalQuestions         int       `json:"totalQuestions"`
	Duration               string    `json:"duration,omitempty"` // empty when unknown
	PassPercentage         string    `json:"passPercentage"`
	CreatedBy              string    `json:"createdBy"`
	CreatedAt              time.Time `json:"createdAt"`
}

// IsDraft reports whether the test is not yet published.
func (t Test) IsDraft() bool {
	return t.Status == LabelDraft
}

// Record is a test as the API sends it. Any field may be missing or of an unexpected type.
type Record struct {
	ID                     core.Loose `json:"id"`
	Title                  core.Loose `json:"title"`
	Subject                core.Loose `json:"subject"`
	Class                  core.Loose `json:"class"`
	Status                 core.Loose `json:"status"`
	CertificationAvailable core.Loose `json:"certificationAvailable"`
	Questions              core.Loose `json:"questions"`
	Duration               core.Loose `json:"duration"`
	PassPercentage         core.Loose `json:"pass_percentage"`
	TotalMarks             core.Loose `json:"totalMarks"`
	CreatedBy              core.Loose `json:"created_by"`
	CreatedAt              core.Loose `json:"createdAt"`
}

// FromRecord maps a raw record to a Test. A missing creation date becomes `now`.
func FromRecord(r Record, now time.Time) Test {
	desc := make([]string, 0, 2)
	for _, part := range []core.Loose{r.Subject, r.Class} {
		if part.Truthy() {
			desc = append(desc, part.String())
		}
	}
	description := strings.Join(desc, " - ")
	if description == "" {
		description = NoDescription
	}

	status := LabelPublished
	if r.Status.String() == StatusDraft {
		status = LabelDraft
	}

	pass := r.PassPercentage.Or(r.TotalMarks.Or(NoPassPercentage))

	return Test{
		ID:                     r.ID.String(),
		Name:                   r.Title.Or(UntitledName),
		Description:            description,
		Status:                 status,
		CertificationAvailable: r.CertificationAvailable.Truthy(),
		TotalQuestions:         r.Questions.Len(),
		Duration:               r.Duration.Or(""),
		PassPercentage:         pass,
		CreatedBy:              r.CreatedBy.Or(DefaultAuthor),
		CreatedAt:              r.CreatedAt.Time(now),
	}
}

type listEnvelope struct {
	Data *struct {
		Tests       json.RawMessage `json:"tests"`
		TotalPages  null.Int        `json:"totalPages"`
		CurrentPage null.Int        `json:"currentPage"`
		Count       null.Int        `json:"count"`
	} `json:"data"`
}

// Normalize maps a `{data: {tests, totalPages, currentPage, count}}` payload to a listing.
// Anything else, a nil payload included, yields the empty listing.
func Normalize(payload []byte, now time.Time) lifecycle.Listing[Test] {
	var env listEnvelope
	if err := json.Unmarshal(payload, &env); err != nil || env.Data == nil {
		return lifecycle.EmptyListing[Test]()
	}
	var records []Record
	if err := json.Unmarshal(env.Data.Tests, &records); err != nil || records == nil {
		return lifecycle.EmptyListing[Test]()
	}

	tests := make([]Test, 0, len(records))
	for _, r := range records {
		tests = append(tests, FromRecord(r, now))
	}
	return lifecycle.Listing[Test]{
		Items: tests,
		Meta:  lifecycle.NewPageMeta(env.Data.TotalPages, env.Data.Count, env.Data.CurrentPage),
	}
}
