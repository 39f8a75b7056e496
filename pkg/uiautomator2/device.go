package uiautomator2

import (
	"encoding/json"
	"fmt"
)

// Back presses the back button.
func (c *Client) Back() error {
	_, err := c.request("POST", c.sessionPath("/back"), nil)
	return err
}

// PressKeyCode presses an Android key code.
func (c *Client) PressKeyCode(keyCode int) error {
	req := KeyCodeRequest{KeyCode: keyCode}
	_, err := c.request("POST", c.sessionPath("/appium/device/press_keycode"), req)
	return err
}

// Source returns the window hierarchy as XML.
func (c *Client) Source() (string, error) {
	data, err := c.request("GET", c.sessionPath("/source"), nil)
	if err != nil {
		return "", err
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", err
	}

	source, ok := resp.Value.(string)
	if !ok {
		return "", fmt.Errorf("unexpected source response")
	}
	return source, nil
}
