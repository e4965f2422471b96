package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetPaginationParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	return page, pageSize
}

// ClampQty normalizes a quantity: anything below 1 (including unparsable
// input that defaulted to 0) is stored and reported as 1.
func ClampQty(qty int) int {
	if qty < 1 {
		return 1
	}
	return qty
}
