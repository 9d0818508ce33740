package protocol

type MessageType uint8

const (
	MessageTypeHello MessageType = 1
	MessageTypeData  MessageType = 2
	MessageTypeReply MessageType = 3
	MessageTypeError MessageType = 4
	MessageTypeClose MessageType = 5
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeHello:
		return "HELLO"
	case MessageTypeData:
		return "DATA"
	case MessageTypeReply:
		return "REPLY"
	case MessageTypeError:
		return "ERROR"
	case MessageTypeClose:
		return "CLOSE"
	default:
		return "UNKNOWN"
	}
}
