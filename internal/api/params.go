package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"shareit/internal/models"
)

func userIDFrom(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if raw == "" {
		return 0, fmt.Errorf("%s header is required", HeaderUserID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s header", HeaderUserID)
	}
	return id, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// pageFrom reads the from/size paging parameters. Absent values fall back
// to the first default page.
func pageFrom(r *http.Request) (models.Page, error) {
	page := models.Page{Offset: 0, Limit: models.DefaultPageSize}

	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		from, err := strconv.Atoi(raw)
		if err != nil || from < 0 {
			return models.Page{}, fmt.Errorf("invalid from parameter")
		}
		page.Offset = from
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return models.Page{}, fmt.Errorf("invalid size parameter")
		}
		page.Limit = size
	}
	return page, nil
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}
