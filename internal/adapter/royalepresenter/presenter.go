package royalepresenter

import "strings"

// Presenter delivers formatted text without coupling to the command layer.
type Presenter struct {
	sendText func(room, message string) error
}

func NewPresenter(sendText func(room, message string) error) *Presenter {
	return &Presenter{sendText: sendText}
}

func (p *Presenter) Text(room, message string) error {
	if p == nil || p.sendText == nil {
		return nil
	}
	if strings.TrimSpace(message) == "" {
		return nil
	}
	return p.sendText(room, message)
}
