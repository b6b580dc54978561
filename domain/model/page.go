package model

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type Page struct {
	Number int `form:"page" json:"page"`
	Size   int `form:"size" json:"size"`
}

func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

type MessagePage struct {
	TotalElements int64          `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
	Items         []*ChatMessage `json:"items"`
}
