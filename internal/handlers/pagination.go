package handlers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PaginatedResponse is the envelope for any paginated listing.
type PaginatedResponse struct {
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
	Pages int         `json:"pages"`
	Items interface{} `json:"items"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// pageParams reads "page" and "size" query parameters and clamps them to the
// allowed range. Out-of-range pages are not an error: they simply yield an
// empty item list.
func pageParams(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.Query("page"))
	if page <= 0 {
		page = 1
	}

	size, _ = strconv.Atoi(c.Query("size"))
	switch {
	case size > MaxPageSize:
		size = MaxPageSize
	case size <= 0:
		size = DefaultPageSize
	}
	return page, size
}

// Paginate is a GORM scope applying offset and limit from the request.
func Paginate(c *gin.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		page, size := pageParams(c)
		return db.Offset((page - 1) * size).Limit(size)
	}
}

// CreatePaginatedResponse builds the response envelope. Pages is
// ceil(total/size), or 0 when there are no rows at all.
func CreatePaginatedResponse(c *gin.Context, items interface{}, total int64) PaginatedResponse {
	page, size := pageParams(c)

	pages := 0
	if total > 0 {
		pages = int(math.Ceil(float64(total) / float64(size)))
	}

	return PaginatedResponse{
		Total: total,
		Page:  page,
		Size:  size,
		Pages: pages,
		Items: items,
	}
}
