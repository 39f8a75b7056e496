package uiautomator2

// NewTestElement creates an Element for testing purposes.
// This should only be used in tests.
func NewTestElement(id string, client *Client) *Element {
	return &Element{
		id:     id,
		client: client,
	}
}
