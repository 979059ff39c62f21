package command

// Reason classifies why an utterance that looked like a command was
// rejected. The set is closed; every reason maps to a user-facing
// message and none of them is fatal.
type Reason string

const (
	// ReasonUnrecognizedAction: the classifier affirmed a command but
	// its action phrase maps to no canonical action.
	ReasonUnrecognizedAction Reason = "unrecognized_action"
	// ReasonNoDeviceMatch: no catalog device matched the target phrase.
	ReasonNoDeviceMatch Reason = "no_device_match"
	// ReasonUnsupportedAction: the device exists but does not accept
	// the requested action.
	ReasonUnsupportedAction Reason = "unsupported_action"
)

// Message returns the text spoken/shown to the user for this reason.
func (r Reason) Message() string {
	switch r {
	case ReasonUnrecognizedAction:
		return "I couldn't tell what you want done."
	case ReasonNoDeviceMatch:
		return "I don't know which device you mean."
	case ReasonUnsupportedAction:
		return "That device can't do that."
	default:
		return "I couldn't handle that command."
	}
}

// ResolvedCommand is the one structured artifact the pipeline emits.
// It is complete when constructed and never modified after.
type ResolvedCommand struct {
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name"`
	Command    Action `json:"command"`
}

// Validate confirms the device actually supports the action and builds
// the final command.
func Validate(dev *Device, act Action) (ResolvedCommand, Reason) {
	if !dev.Supports(act) {
		return ResolvedCommand{}, ReasonUnsupportedAction
	}
	return ResolvedCommand{
		DeviceID:   dev.ID,
		DeviceName: dev.Name,
		Command:    act,
	}, ""
}
