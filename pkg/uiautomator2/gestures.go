package uiautomator2

// Click taps at coordinates.
func (c *Client) Click(x, y int) error {
	req := ClickRequest{Offset: &PointModel{X: x, Y: y}}
	_, err := c.request("POST", c.sessionPath("/appium/gestures/click"), req)
	return err
}

// ClickElement taps an element's center.
func (c *Client) ClickElement(elementID string) error {
	req := ClickRequest{Origin: &ElementModel{ELEMENT: elementID}}
	_, err := c.request("POST", c.sessionPath("/appium/gestures/click"), req)
	return err
}

// LongClick presses at coordinates for durationMs milliseconds.
func (c *Client) LongClick(x, y, durationMs int) error {
	req := LongClickRequest{Offset: &PointModel{X: x, Y: y}, Duration: durationMs}
	_, err := c.request("POST", c.sessionPath("/appium/gestures/long_click"), req)
	return err
}

// LongClickElement presses an element for durationMs milliseconds.
func (c *Client) LongClickElement(elementID string, durationMs int) error {
	req := LongClickRequest{Origin: &ElementModel{ELEMENT: elementID}, Duration: durationMs}
	_, err := c.request("POST", c.sessionPath("/appium/gestures/long_click"), req)
	return err
}

// Scroll scrolls inside an element.
func (c *Client) Scroll(elementID, direction string, percent float64, speed int) error {
	req := ScrollRequest{
		Origin:    &ElementModel{ELEMENT: elementID},
		Direction: direction,
		Percent:   percent,
		Speed:     speed,
	}
	_, err := c.request("POST", c.sessionPath("/appium/gestures/scroll"), req)
	return err
}

// Drag drags an element to end coordinates.
func (c *Client) Drag(elementID string, endX, endY, speed int) error {
	req := DragRequest{
		Origin: &ElementModel{ELEMENT: elementID},
		EndX:   endX,
		EndY:   endY,
		Speed:  speed,
	}
	_, err := c.request("POST", c.sessionPath("/appium/gestures/drag"), req)
	return err
}

// DragPoints drags from one coordinate to another.
func (c *Client) DragPoints(startX, startY, endX, endY, speed int) error {
	req := DragRequest{
		StartX: startX,
		StartY: startY,
		EndX:   endX,
		EndY:   endY,
		Speed:  speed,
	}
	_, err := c.request("POST", c.sessionPath("/appium/gestures/drag"), req)
	return err
}
