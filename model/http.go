package model

type EncodeRequest struct {
	Notation string `json:"notation"`
	Channel  int    `json:"channel,omitempty"`
	Velocity int    `json:"velocity,omitempty"`
	NoteOff  string `json:"note_off,omitempty"`
	BPM      int    `json:"bpm,omitempty"`
}

type EncodeResponse struct {
	RequestId string   `json:"request_id"`
	Hex       string   `json:"hex"`
	Skipped   []string `json:"skipped,omitempty"`
}

type DecodeRequest struct {
	Hex           string `json:"hex"`
	BPM           int    `json:"bpm,omitempty"`
	ChannelFilter int    `json:"channel_filter,omitempty"`
}

type DecodeResponse struct {
	RequestId string `json:"request_id"`
	Notation  string `json:"notation"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
