package models

// PagedResponse holds one page of FIRs together with the paging metadata
type PagedResponse struct {
	Content       []FIRResponse `json:"content"`
	Page          int           `json:"page"`
	Size          int           `json:"size"`
	TotalElements int64         `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
	HasNext       bool          `json:"hasNext"`
	HasPrevious   bool          `json:"hasPrevious"`
	IsFirst       bool          `json:"isFirst"`
	IsLast        bool          `json:"isLast"`
}
