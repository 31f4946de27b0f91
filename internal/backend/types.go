package backend

// Result statuses reported per course.
const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// CreationResponse is the reply of the bulk-create endpoint.
type CreationResponse struct {
	TotalRequested int          `json:"total_requested"`
	SuccessCount   int          `json:"success_count"`
	FailureCount   int          `json:"failure_count"`
	DryRun         bool         `json:"dry_run"`
	Results        []ItemResult `json:"results"`
}

// ItemResult is the outcome for one course. Index is the position of the
// course in the submitted courses list.
type ItemResult struct {
	Index             int      `json:"index"`
	CourseName        string   `json:"course_name"`
	Status            string   `json:"status"`
	CourseID          string   `json:"course_id,omitempty"`
	PackageSessionIDs []string `json:"package_session_ids,omitempty"`
	EnrollInviteIDs   []string `json:"enroll_invite_ids,omitempty"`
	PaymentOptionID   string   `json:"payment_option_id,omitempty"`
	ErrorMessage      string   `json:"error_message,omitempty"`
}

// Succeeded reports whether the server accepted the course.
func (r ItemResult) Succeeded() bool { return r.Status == StatusSuccess }

// Failures returns the failed items.
func (r *CreationResponse) Failures() []ItemResult {
	var out []ItemResult
	for _, it := range r.Results {
		if !it.Succeeded() {
			out = append(out, it)
		}
	}
	return out
}

// merge appends a chunk response whose indexes start at offset.
func (r *CreationResponse) merge(chunk *CreationResponse, offset int) {
	r.TotalRequested += chunk.TotalRequested
	r.SuccessCount += chunk.SuccessCount
	r.FailureCount += chunk.FailureCount
	for _, it := range chunk.Results {
		it.Index += offset
		r.Results = append(r.Results, it)
	}
}
