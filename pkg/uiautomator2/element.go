package uiautomator2

import (
	"encoding/json"
	"fmt"
)

// Element represents a UI element on the device.
type Element struct {
	id     string
	client *Client
}

// ID returns the element ID.
func (e *Element) ID() string {
	return e.id
}

// FindElement finds a single element.
func (c *Client) FindElement(strategy, selector string) (*Element, error) {
	return c.FindElementWithContext(strategy, selector, "")
}

// FindElementWithContext finds an element within a parent element.
func (c *Client) FindElementWithContext(strategy, selector, contextID string) (*Element, error) {
	req := FindElementRequest{
		Strategy: strategy,
		Selector: selector,
		Context:  contextID,
	}

	data, err := c.request("POST", c.sessionPath("/element"), req)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Value struct {
			ELEMENT string `json:"ELEMENT"`
		} `json:"value"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse element response: %w", err)
	}

	if resp.Value.ELEMENT == "" {
		return nil, fmt.Errorf("element not found: %s=%s", strategy, selector)
	}

	return &Element{id: resp.Value.ELEMENT, client: c}, nil
}

// FindElements finds multiple elements.
func (c *Client) FindElements(strategy, selector string) ([]*Element, error) {
	req := FindElementRequest{
		Strategy: strategy,
		Selector: selector,
	}

	data, err := c.request("POST", c.sessionPath("/elements"), req)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Value []struct {
			ELEMENT string `json:"ELEMENT"`
		} `json:"value"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse elements response: %w", err)
	}

	elements := make([]*Element, len(resp.Value))
	for i, v := range resp.Value {
		elements[i] = &Element{id: v.ELEMENT, client: c}
	}
	return elements, nil
}

// Click taps the element.
func (e *Element) Click() error {
	_, err := e.client.request("POST", e.client.sessionPath("/element/"+e.id+"/click"), nil)
	return err
}

// Clear clears the element's text.
func (e *Element) Clear() error {
	return e.client.ClearElement(e.id)
}

// SendKeys types text into the element.
func (e *Element) SendKeys(text string) error {
	return e.client.SendKeysElement(e.id, text)
}

// ClearElement clears the text of an element by ID.
func (c *Client) ClearElement(elementID string) error {
	_, err := c.request("POST", c.sessionPath("/element/"+elementID+"/clear"), nil)
	return err
}

// SendKeysElement replaces the text of an element by ID.
func (c *Client) SendKeysElement(elementID, text string) error {
	req := InputTextRequest{Text: text}
	_, err := c.request("POST", c.sessionPath("/element/"+elementID+"/value"), req)
	return err
}

// Text returns the element's text content.
func (e *Element) Text() (string, error) {
	return e.getString("/text")
}

// Attribute returns an element attribute.
func (e *Element) Attribute(name string) (string, error) {
	return e.getString("/attribute/" + name)
}

func (e *Element) getString(suffix string) (string, error) {
	data, err := e.client.request("GET", e.client.sessionPath("/element/"+e.id+suffix), nil)
	if err != nil {
		return "", err
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", err
	}

	s, _ := resp.Value.(string)
	return s, nil
}

// Rect returns the element's bounds.
func (e *Element) Rect() (ElementRect, error) {
	data, err := e.client.request("GET", e.client.sessionPath("/element/"+e.id+"/rect"), nil)
	if err != nil {
		return ElementRect{}, err
	}

	var resp struct {
		Value ElementRect `json:"value"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return ElementRect{}, err
	}

	return resp.Value, nil
}
