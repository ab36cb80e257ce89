package vm

type MessageType int

const (
	_ MessageType = iota
	MsgDebug
	MsgInput
	MsgOutput
	MsgAwait
	MsgHalt
	MsgFault
	MsgWarning
)

func (mt MessageType) String() string {
	switch mt {
	case MsgDebug:
		return "Debug"
	case MsgInput:
		return "Input"
	case MsgOutput:
		return "Output"
	case MsgAwait:
		return "Await"
	case MsgHalt:
		return "Halt"
	case MsgFault:
		return "Fault"
	case MsgWarning:
		return "Warning"
	default:
		return "Unknown"
	}
}

type Message struct {
	Type    MessageType
	Machine int   // ID of the emitting machine.
	IP      int64 // Instruction pointer when the message was emitted.
	Message string
}

func NewMessage(mt MessageType, m *Machine, msg string) Message {
	return Message{
		Type:    mt,
		Machine: m.ID,
		IP:      m.IP,
		Message: msg,
	}
}
