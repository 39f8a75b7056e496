package uiautomator2

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestClick(t *testing.T) {
	client, server := newTestClientWithSession(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/appium/gestures/click") {
			t.Errorf("expected /appium/gestures/click, got %s", r.URL.Path)
		}

		var req ClickRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Offset == nil || req.Offset.X != 100 || req.Offset.Y != 200 {
			t.Errorf("unexpected offset: %+v", req.Offset)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{})
	})
	defer server.Close()

	if err := client.Click(100, 200); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClickElement(t *testing.T) {
	client, server := newTestClientWithSession(func(w http.ResponseWriter, r *http.Request) {
		var req ClickRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Origin == nil || req.Origin.ELEMENT != "elem-123" {
			t.Errorf("unexpected origin: %+v", req.Origin)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{})
	})
	defer server.Close()

	if err := client.ClickElement("elem-123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLongClick(t *testing.T) {
	client, server := newTestClientWithSession(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/appium/gestures/long_click") {
			t.Errorf("expected /appium/gestures/long_click, got %s", r.URL.Path)
		}

		var req LongClickRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Offset.X != 100 || req.Offset.Y != 200 || req.Duration != 1000 {
			t.Errorf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{})
	})
	defer server.Close()

	if err := client.LongClick(100, 200, 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLongClickElement(t *testing.T) {
	client, server := newTestClientWithSession(func(w http.ResponseWriter, r *http.Request) {
		var req LongClickRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Origin.ELEMENT != "elem-123" || req.Duration != 500 {
			t.Errorf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{})
	})
	defer server.Close()

	if err := client.LongClickElement("elem-123", 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScroll(t *testing.T) {
	client, server := newTestClientWithSession(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/appium/gestures/scroll") {
			t.Errorf("expected /appium/gestures/scroll, got %s", r.URL.Path)
		}

		var req ScrollRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Origin.ELEMENT != "scroll-view" || req.Direction != "down" || req.Percent != 0.3 {
			t.Errorf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{})
	})
	defer server.Close()

	if err := client.Scroll("scroll-view", DirectionDown, 0.3, 800); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDrag(t *testing.T) {
	client, server := newTestClientWithSession(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/appium/gestures/drag") {
			t.Errorf("expected /appium/gestures/drag, got %s", r.URL.Path)
		}

		var req DragRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Origin.ELEMENT != "drag-elem" {
			t.Errorf("unexpected origin: %+v", req.Origin)
		}
		if req.EndX != 300 || req.EndY != 400 {
			t.Errorf("unexpected end: %d, %d", req.EndX, req.EndY)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{})
	})
	defer server.Close()

	if err := client.Drag("drag-elem", 300, 400, 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDragPoints(t *testing.T) {
	client, server := newTestClientWithSession(func(w http.ResponseWriter, r *http.Request) {
		var req DragRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Origin != nil {
			t.Errorf("unexpected origin: %+v", req.Origin)
		}
		if req.StartX != 300 || req.StartY != 1200 || req.EndX != 300 || req.EndY != 300 || req.Speed != 1285 {
			t.Errorf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{})
	})
	defer server.Close()

	if err := client.DragPoints(300, 1200, 300, 300, 1285); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
