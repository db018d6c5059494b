package dto

type PaymentDTO struct {
	ID         string `json:"id"`
	JobID      string `json:"jobId"`
	Amount     string `json:"amount"`
	Status     string `json:"status"`
	ProofImage string `json:"proofImage,omitempty"`
	Deadline   string `json:"deadline"`
	Overdue    bool   `json:"overdue"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

type SubmitProofRequest struct {
	ProofImage string `json:"proofImage"`
}

type DisputeDTO struct {
	ID         string `json:"id"`
	JobID      string `json:"jobId"`
	RaisedBy   string `json:"raisedBy"`
	Text       string `json:"text"`
	Evidence   string `json:"evidence,omitempty"`
	Status     string `json:"status"`
	Resolution string `json:"resolution,omitempty"`
	CreatedAt  string `json:"createdAt"`
	ResolvedAt string `json:"resolvedAt,omitempty"`
}

// RaiseDisputeRequest binds from JSON or multipart form fields
type RaiseDisputeRequest struct {
	JobID string `json:"jobId" form:"jobId"`
	Text  string `json:"text" form:"text"`
}

type ResolveDisputeRequest struct {
	Resolution string `json:"resolution"`
}

type DisputesResponse struct {
	Disputes []DisputeDTO `json:"disputes"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
