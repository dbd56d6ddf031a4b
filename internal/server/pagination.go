package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type pageData struct {
	PageSize  int  `json:"pageSize"`
	PageIndex int  `json:"pageIndex"`
	Total     int  `json:"total"`
	Pages     int  `json:"pages"`
	HasPrev   bool `json:"hasPrev"`
	HasNext   bool `json:"hasNext"`
}

// parsePagination reads pageSize and pageIndex from the query, falling back
// to the defaults for missing or malformed values.
func parsePagination(c *gin.Context, defaultSize, maxSize int) (int, int) {
	pageSize := defaultSize
	pageIndex := 0
	if raw := strings.TrimSpace(c.Query("pageSize")); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			pageSize = value
		}
	}
	if raw := strings.TrimSpace(c.Query("pageIndex")); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			pageIndex = value
		}
	}
	if maxSize > 0 && pageSize > maxSize {
		pageSize = maxSize
	}
	return pageSize, pageIndex
}

func buildPageData(pageSize, pageIndex, total int) pageData {
	if pageSize <= 0 {
		pageSize = 1
	}
	pages := (total + pageSize - 1) / pageSize
	return pageData{
		PageSize:  pageSize,
		PageIndex: pageIndex,
		Total:     total,
		Pages:     pages,
		HasPrev:   pageIndex > 0,
		HasNext:   pageIndex+1 < pages,
	}
}
