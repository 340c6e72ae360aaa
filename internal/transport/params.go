package transport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/afisha-dev/afisha/internal/entity"
	"github.com/gin-gonic/gin"
)

// parseIDParam читает числовой параметр пути
func parseIDParam(c *gin.Context, name string) (int64, error) {
	value, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return value, nil
}

// parsePaging читает пагинацию from/size с значениями по умолчанию
func parsePaging(c *gin.Context) (int, int, error) {
	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil || from < 0 {
		return 0, 0, fmt.Errorf("invalid from parameter")
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size <= 0 {
		return 0, 0, fmt.Errorf("invalid size parameter")
	}
	return from, size, nil
}

// parseInt64List читает повторяющийся числовой query-параметр,
// поддерживая и форму со списком через запятую.
func parseInt64List(c *gin.Context, name string) ([]int64, error) {
	var values []int64
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			value, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid %s parameter", name)
			}
			values = append(values, value)
		}
	}
	return values, nil
}

// parseStringList читает повторяющийся строковый query-параметр
func parseStringList(c *gin.Context, name string) []string {
	var values []string
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}

// parseTimeQuery читает необязательную отметку времени
func parseTimeQuery(c *gin.Context, name string) (*entity.EventTime, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := entity.ParseEventTime(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s parameter", name)
	}
	return &t, nil
}

// parseBoolQuery читает необязательный булев параметр
func parseBoolQuery(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s parameter", name)
	}
	return &value, nil
}
