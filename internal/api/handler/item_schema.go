package handler

import (
	"math"
	"strconv"
	"strings"

	"github.com/exampleapp/example-api/internal/core/domain"
	"github.com/exampleapp/example-api/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 2000
	// maxPage keeps page*size within an int.
	maxPage = math.MaxInt / maxPageSize
)

// --- Request / Response types ---

type itemRequest struct {
	Name        string  `json:"name"        validate:"notblank,max=255"  message:"notblank=Name is required|max=Name must be between 1 and 255 characters"`
	Description *string `json:"description" validate:"omitnil,max=5000" message:"Description must not exceed 5000 characters"`
}

type pageMetadata struct {
	Size          int   `json:"size"`
	Number        int   `json:"number"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

type itemPageResponse struct {
	Content []*domain.Item `json:"content"`
	Page    pageMetadata   `json:"page"`
}

func toItemPageResponse(p *ports.ItemPage) itemPageResponse {
	content := p.Items
	if content == nil {
		content = []*domain.Item{}
	}
	return itemPageResponse{
		Content: content,
		Page: pageMetadata{
			Size:          p.Size,
			Number:        p.Number,
			TotalElements: p.TotalElements,
			TotalPages:    p.TotalPages,
		},
	}
}

// parsePageRequest reads page, size and sort query parameters. Malformed or
// out-of-range values fall back to their defaults instead of failing.
func parsePageRequest(page, size, sort string) ports.PageRequest {
	req := ports.PageRequest{Page: 0, Size: defaultPageSize, Sort: ports.SortByID}

	if n, err := strconv.Atoi(page); err == nil && n >= 0 && n <= maxPage {
		req.Page = n
	}
	if n, err := strconv.Atoi(size); err == nil && n > 0 {
		req.Size = min(n, maxPageSize)
	}

	if sort == "" {
		return req
	}
	field, dir, _ := strings.Cut(sort, ",")
	switch f := ports.SortField(strings.TrimSpace(field)); f {
	case ports.SortByID, ports.SortByName, ports.SortByCreatedAt, ports.SortByUpdatedAt:
		req.Sort = f
	default:
		return req
	}
	req.Descending = strings.EqualFold(strings.TrimSpace(dir), "desc")
	return req
}

func parseItemID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
