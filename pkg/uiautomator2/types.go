// Package uiautomator2 provides an HTTP client for the UIAutomator2 server.
package uiautomator2

// Response is the standard UIAutomator2 response format.
type Response struct {
	SessionID string      `json:"sessionId"`
	Value     interface{} `json:"value"`
}

// Capabilities for session creation.
type Capabilities struct {
	PlatformName string `json:"platformName,omitempty"`
	DeviceName   string `json:"deviceName,omitempty"`
}

// SessionRequest for creating a session.
type SessionRequest struct {
	Capabilities Capabilities `json:"capabilities"`
}

// ElementModel represents an element reference.
type ElementModel struct {
	ELEMENT string `json:"ELEMENT"`
}

// FindElementRequest for finding elements.
type FindElementRequest struct {
	Strategy string `json:"strategy"`
	Selector string `json:"selector"`
	Context  string `json:"context,omitempty"`
}

// InputTextRequest for typing text.
type InputTextRequest struct {
	Text string `json:"text"`
}

// KeyCodeRequest for pressing keys.
type KeyCodeRequest struct {
	KeyCode  int `json:"keycode"`
	MetaKeys int `json:"metastate,omitempty"`
}

// PointModel represents coordinates.
type PointModel struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ElementRect represents element bounds from the /element/{id}/rect API.
type ElementRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ClickRequest for tap gestures.
type ClickRequest struct {
	Origin *ElementModel `json:"origin,omitempty"`
	Offset *PointModel   `json:"offset,omitempty"`
}

// LongClickRequest for long press gestures.
type LongClickRequest struct {
	Origin   *ElementModel `json:"origin,omitempty"`
	Offset   *PointModel   `json:"offset,omitempty"`
	Duration int           `json:"duration,omitempty"` // milliseconds
}

// ScrollRequest for element scroll gestures.
type ScrollRequest struct {
	Origin    *ElementModel `json:"origin,omitempty"`
	Direction string        `json:"direction"`
	Percent   float64       `json:"percent"`
	Speed     int           `json:"speed,omitempty"`
}

// DragRequest for drag gestures. Either Origin or Start is set.
type DragRequest struct {
	Origin *ElementModel `json:"origin,omitempty"`
	StartX int           `json:"startX,omitempty"`
	StartY int           `json:"startY,omitempty"`
	EndX   int           `json:"endX"`
	EndY   int           `json:"endY"`
	Speed  int           `json:"speed,omitempty"` // pixels per second
}

// Common Android key codes.
const (
	KeyCodeBack   = 4
	KeyCodeHome   = 3
	KeyCodeEnter  = 66
	KeyCodeSearch = 84
)

// Locator strategies.
const (
	StrategyID              = "id"
	StrategyAccessibilityID = "accessibility id"
	StrategyXPath           = "xpath"
	StrategyClassName       = "class name"
)

// Scroll directions.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)
