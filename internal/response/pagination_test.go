package response

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// verificationRow mimics the shape of a history listing row.
type verificationRow struct {
	ID     uint   `gorm:"primaryKey"`
	Date   string `gorm:"type:varchar(10)"`
	Result string `gorm:"type:varchar(10)"`
}

func seedRows(t *testing.T, n int) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&verificationRow{}))

	for i := 0; i < n; i++ {
		db.Create(&verificationRow{Date: fmt.Sprintf("2025-06-%02d", i+1), Result: "pass"})
	}
	return db
}

func paginateURL(t *testing.T, db *gorm.DB, url string) (*PaginatedResponse, []verificationRow, error) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", url, nil)

	var results []verificationRow
	resp, err := Paginate(c, db.Model(&verificationRow{}), &results)
	return resp, results, err
}

func TestPaginate_Empty(t *testing.T) {
	db := seedRows(t, 0)

	resp, results, err := paginateURL(t, db, "/?page=1&page_size=10")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 1, resp.Pagination.Page)
	if resp.Pagination.TotalItems >= 0 {
		assert.Equal(t, int64(0), resp.Pagination.TotalItems)
		assert.Equal(t, 0, resp.Pagination.TotalPages)
	}
}

func TestPaginate_SinglePage(t *testing.T) {
	db := seedRows(t, 5)

	resp, results, err := paginateURL(t, db, "/?page=1&page_size=10")
	require.NoError(t, err)
	assert.Len(t, results, 5)
	assert.Equal(t, int64(5), resp.Pagination.TotalItems)
	assert.Equal(t, 1, resp.Pagination.TotalPages)
}

func TestPaginate_SecondPage(t *testing.T) {
	db := seedRows(t, 25)

	resp, results, err := paginateURL(t, db, "/?page=2&page_size=10")
	require.NoError(t, err)
	assert.Len(t, results, 10)
	assert.Equal(t, 2, resp.Pagination.Page)
	if resp.Pagination.TotalItems > 0 {
		assert.Equal(t, int64(25), resp.Pagination.TotalItems)
		assert.Equal(t, 3, resp.Pagination.TotalPages)
	}
}

// Bad query params normalize instead of erroring.
func TestPaginate_ParameterNormalization(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantPage int
		wantSize int
	}{
		{"negative page", "/?page=-1&page_size=10", 1, 10},
		{"non-numeric page", "/?page=abc&page_size=10", 1, 10},
		{"zero page size", "/?page=1&page_size=0", 1, DefaultPageSize},
		{"oversized page size", "/?page=1&page_size=2000", 1, MaxPageSize},
		{"no params", "/", 1, DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := seedRows(t, 3)

			resp, _, err := paginateURL(t, db, tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, resp.Pagination.Page)
			assert.Equal(t, tt.wantSize, resp.Pagination.PageSize)
		})
	}
}

func TestGetSliceLen(t *testing.T) {
	assert.Equal(t, 3, getSliceLen([]int{1, 2, 3}))
	assert.Equal(t, 4, getSliceLen(&[]int{1, 2, 3, 4}))
	assert.Equal(t, 0, getSliceLen([]int{}))
	assert.Equal(t, 0, getSliceLen("not a slice"))
}

func TestTrimSliceToLen(t *testing.T) {
	long := []int{1, 2, 3, 4, 5}
	trimSliceToLen(&long, 3)
	assert.Len(t, long, 3)

	short := []int{1, 2}
	trimSliceToLen(&short, 5)
	assert.Len(t, short, 2)
}
