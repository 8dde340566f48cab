package types

// ItemType is the single-character Gopher wire code tagging a menu item.
type ItemType byte

const (
	TextFile ItemType = '0'
	Menu     ItemType = '1'
	Search   ItemType = '7'
	Binary   ItemType = '9'
	Gif      ItemType = 'g'
	Image    ItemType = 'I'
	Info     ItemType = 'i'
	Html     ItemType = 'h'
	Unknown  ItemType = '?'
)

// ItemTypeFromByte maps a wire byte to an ItemType, defaulting to Unknown.
func ItemTypeFromByte(b byte) ItemType {
	switch ItemType(b) {
	case TextFile, Menu, Search, Binary, Gif, Image, Info, Html:
		return ItemType(b)
	default:
		return Unknown
	}
}

// Name returns the human-readable name of the item type.
func (t ItemType) Name() string {
	switch t {
	case TextFile:
		return "TextFile"
	case Menu:
		return "Menu"
	case Search:
		return "Search"
	case Binary:
		return "Binary"
	case Gif:
		return "Gif"
	case Image:
		return "Image"
	case Info:
		return "Info"
	case Html:
		return "Html"
	default:
		return "Unknown"
	}
}

// MIME returns the MIME type hint associated with the item type.
func (t ItemType) MIME() string {
	switch t {
	case TextFile:
		return "text/plain"
	case Menu:
		return "application/x-gopher-menu"
	case Binary:
		return "application/octet-stream"
	case Gif:
		return "image/gif"
	case Image:
		return "image/jpeg"
	case Html:
		return "text/html"
	default:
		return "text/plain"
	}
}

// MenuItem is a single entry in a Gopher menu, whether rendered by the
// local store, projected by an adapter, or parsed off the wire from a
// remote Gopher server.
type MenuItem struct {
	Type     ItemType
	Display  string
	Selector string
	Host     string
	Port     uint16
}

// Path computes the caller-facing path for this item: "host/selector",
// with the selector's leading "/" stripped before joining. Info items
// have no navigable path.
func (m MenuItem) Path() string {
	if m.Type == Info {
		return ""
	}
	sel := m.Selector
	for len(sel) > 0 && sel[0] == '/' {
		sel = sel[1:]
	}
	return m.Host + "/" + sel
}

// ContentNode is a node of the local store: either a Menu (ordered
// MenuItems) or a Document (text with a MIME hint). The zero value is
// neither — callers must check Kind.
type ContentNode struct {
	Kind  NodeKind
	Items []MenuItem // valid when Kind == NodeMenu
	Text  string     // valid when Kind == NodeDocument
	MIME  string     // valid when Kind == NodeDocument
}

// NodeKind tags a ContentNode as a menu or a document.
type NodeKind int

const (
	NodeMenu NodeKind = iota
	NodeDocument
)

// MenuNode builds a ContentNode wrapping a menu.
func MenuNode(items []MenuItem) ContentNode {
	return ContentNode{Kind: NodeMenu, Items: items}
}

// DocumentNode builds a ContentNode wrapping a text document.
func DocumentNode(text, mime string) ContentNode {
	if mime == "" {
		mime = "text/plain"
	}
	return ContentNode{Kind: NodeDocument, Text: text, MIME: mime}
}
