package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client обращается к внешнему сервису классификации изображений.
// Сервис принимает фото и возвращает уверенность того, что на снимке
// действительно заявленная категория опасности.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Result содержит ответ классификатора.
type Result struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// NewClient создаёт экземпляр клиента.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Classify отправляет изображение на проверку и возвращает результат.
// hazardType передаётся сервису как ожидаемая категория.
func (c *Client) Classify(ctx context.Context, image []byte, filename, hazardType string) (*Result, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("classifier: baseURL не задан")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	if err := writer.WriteField("hazard_type", hazardType); err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/classify"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("classifier: код ответа %d: %s", resp.StatusCode, string(raw))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("classifier: некорректный ответ: %w", err)
	}

	return &result, nil
}
