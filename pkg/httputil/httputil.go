package httputil

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"
)

var client = &http.Client{Timeout: 30 * time.Second}

// Get performs an HTTP GET against the given URL and returns the status
// code and the raw body.
func Get(url string, headers map[string]string) (int, string, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return 0, "", err
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, string(body), nil
}

// GetJSON performs an HTTP GET and decodes the body into out. Any non-200
// status is an error.
func GetJSON(url string, out interface{}) error {
	status, body, err := Get(url, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", status, body)
	}
	return json.Unmarshal([]byte(body), out)
}
