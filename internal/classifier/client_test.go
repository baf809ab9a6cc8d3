package classifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Classify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/classify" {
			t.Fatalf("неожиданный путь: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("ожидался multipart запрос: %v", err)
		}
		if r.FormValue("hazard_type") != "pothole" {
			t.Fatalf("поле hazard_type не передано")
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Fatalf("поле file не передано: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"label":"pothole","confidence":0.93}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.Classify(context.Background(), []byte{0xFF, 0xD8}, "photo.jpg", "pothole")
	if err != nil {
		t.Fatalf("classify вернул ошибку: %v", err)
	}

	if result.Label != "pothole" {
		t.Fatalf("ожидалась метка pothole, получили %s", result.Label)
	}
	if result.Confidence != 0.93 {
		t.Fatalf("ожидалась уверенность 0.93, получили %f", result.Confidence)
	}
}

func TestClient_ClassifyServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Classify(context.Background(), []byte{1}, "photo.jpg", "pothole"); err == nil {
		t.Fatalf("ошибка сервера должна возвращаться клиенту")
	}
}

func TestClient_ClassifyEmptyBaseURL(t *testing.T) {
	client := NewClient("")
	if _, err := client.Classify(context.Background(), []byte{1}, "photo.jpg", "pothole"); err == nil {
		t.Fatalf("пустой baseURL должен возвращать ошибку")
	}
}
