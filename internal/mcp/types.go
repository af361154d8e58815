package mcp

// FrameInfo describes one frame on the desktop.
type FrameInfo struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Focused   bool   `json:"focused"`
	Modal     bool   `json:"modal"`
	Closable  bool   `json:"closable"`
	Resizable bool   `json:"resizable"`
}

// ListFramesInput is the input for the list_frames tool.
type ListFramesInput struct{}

// ListFramesOutput is the output for the list_frames tool. Frames are listed
// front to back.
type ListFramesOutput struct {
	Frames   []FrameInfo `json:"frames"`
	Focused  uint64      `json:"focused,omitempty"`
	Modal    uint64      `json:"modal,omitempty"`
	Layout   string      `json:"layout"`
	Viewport Bounds      `json:"viewport"`
}

// Bounds is a rectangle in desktop coordinates.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewFrameInput is the input for the new_frame tool.
type NewFrameInput struct {
	Title string `json:"title,omitempty" jsonschema:"Frame title. When omitted the host's frame factory picks title and content."`
	Text  string `json:"text,omitempty" jsonschema:"Text shown in the frame body when a title is given"`
	X     int    `json:"x,omitempty" jsonschema:"Left edge; used with width and height"`
	Y     int    `json:"y,omitempty" jsonschema:"Top edge; used with width and height"`
	// Zero width or height cascades the frame from the top-left corner.
	Width  int  `json:"width,omitempty" jsonschema:"Frame width in pixels (default: cascade with the default size)"`
	Height int  `json:"height,omitempty" jsonschema:"Frame height in pixels (default: cascade with the default size)"`
	Modal  bool `json:"modal,omitempty" jsonschema:"Open the frame as the modal frame"`
}

// NewFrameOutput is the output for the new_frame tool.
type NewFrameOutput struct {
	Frame FrameInfo `json:"frame"`
}

// FrameIDInput selects a frame by ID.
type FrameIDInput struct {
	ID uint64 `json:"id" jsonschema:"Frame ID from list_frames"`
}

// CloseFrameOutput is the output for the close_frame tool.
type CloseFrameOutput struct {
	Closed bool `json:"closed"`
}

// FocusFrameOutput is the output for the focus_frame tool.
type FocusFrameOutput struct {
	Focused uint64 `json:"focused"`
}

// MoveFrameInput is the input for the move_frame tool.
type MoveFrameInput struct {
	ID     uint64 `json:"id" jsonschema:"Frame ID from list_frames"`
	X      int    `json:"x" jsonschema:"New left edge"`
	Y      int    `json:"y" jsonschema:"New top edge"`
	Width  int    `json:"width,omitempty" jsonschema:"New width (default: keep current)"`
	Height int    `json:"height,omitempty" jsonschema:"New height (default: keep current)"`
}

// MoveFrameOutput is the output for the move_frame tool. Bounds are the
// result after clamping to the frame's minimum size.
type MoveFrameOutput struct {
	Frame FrameInfo `json:"frame"`
}

// TileFramesInput is the input for the tile_frames tool.
type TileFramesInput struct {
	Layout string `json:"layout,omitempty" jsonschema:"Layout name from tiling.layouts (default: active layout)"`
	Undo   bool   `json:"undo,omitempty" jsonschema:"Restore the bounds saved by the last tile instead of tiling"`
}

// TileFramesOutput is the output for the tile_frames tool.
type TileFramesOutput struct {
	Tiled    int    `json:"tiled"`
	Layout   string `json:"layout"`
	Restored bool   `json:"restored,omitempty"`
}

// SetModalInput is the input for the set_modal tool.
type SetModalInput struct {
	ID uint64 `json:"id,omitempty" jsonschema:"Frame ID to make modal; 0 clears the modal frame"`
}

// SetModalOutput is the output for the set_modal tool.
type SetModalOutput struct {
	Modal uint64 `json:"modal"`
}

// RunActionInput is the input for the run_action tool.
type RunActionInput struct {
	Action string `json:"action" jsonschema:"Shortcut action name, e.g. cycle_focus, focus_left, cycle_layout"`
}

// RunActionOutput is the output for the run_action tool.
type RunActionOutput struct {
	Focused uint64 `json:"focused,omitempty"`
}
