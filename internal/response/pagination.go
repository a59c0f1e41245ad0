package response

import (
	"context"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	DefaultPageSize  = 15
	MaxPageSize      = 1000
	DataQueryTimeout = 3 * time.Second
)

// Pagination represents the pagination details in a response.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// PaginatedResponse is the standard structure for all paginated API responses.
type PaginatedResponse struct {
	Items      any        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Paginate runs a paginated query. It fetches pageSize+1 rows to detect the
// last page without a COUNT; when more pages exist a COUNT supplies totals,
// with -1 signalling unknown if that query fails.
func Paginate(c *gin.Context, query *gorm.DB, dest any) (*PaginatedResponse, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(DefaultPageSize)))
	if err != nil || pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	offset := (page - 1) * pageSize

	ctx, cancel := context.WithTimeout(context.Background(), DataQueryTimeout)
	defer cancel()

	dataQuery := query.Session(&gorm.Session{NewDB: true})
	if err := dataQuery.WithContext(ctx).Limit(pageSize + 1).Offset(offset).Find(dest).Error; err != nil {
		return nil, err
	}

	actualCount := getSliceLen(dest)
	hasMore := actualCount > pageSize
	if hasMore {
		trimSliceToLen(dest, pageSize)
		actualCount = pageSize
	}

	var totalItems int64
	var totalPages int
	if !hasMore {
		// Last page: the exact total is already known.
		totalItems = int64(offset + actualCount)
		totalPages = page
		if actualCount == 0 && page == 1 {
			totalPages = 0
		}
	} else {
		countQuery := query.Session(&gorm.Session{NewDB: true})
		if err := countQuery.WithContext(ctx).Count(&totalItems).Error; err != nil {
			logrus.WithError(err).Warn("Pagination COUNT query failed")
			totalItems = -1
			totalPages = -1
		} else {
			totalPages = int(math.Ceil(float64(totalItems) / float64(pageSize)))
		}
	}

	return &PaginatedResponse{
		Items: dest,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: totalItems,
			TotalPages: totalPages,
		},
	}, nil
}

// getSliceLen returns the length of a slice, 0 if dest is not a slice.
func getSliceLen(dest any) int {
	val := reflect.ValueOf(dest)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Slice {
		return 0
	}
	return val.Len()
}

// trimSliceToLen trims a slice to the specified length.
func trimSliceToLen(dest any, length int) {
	val := reflect.ValueOf(dest)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Slice {
		return
	}
	if val.Len() > length {
		val.Set(val.Slice(0, length))
	}
}
