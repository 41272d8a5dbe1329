package encoder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sarukas/midi2text/model"
)

// RenderHex formats elements as space-separated two-digit uppercase
// hex octets, e.g. "90 3C 40". Delays render as advisory markers
// ("# DELAY:417ms #", "# REST:333ms #") that are not wire bytes.
func RenderHex(elements []model.Element) string {
	var parts []string
	for _, el := range elements {
		switch e := el.(type) {
		case model.Message:
			b := e.Bytes()
			parts = append(parts, fmt.Sprintf("%02X %02X %02X", b[0], b[1], b[2]))
		case model.Delay:
			label := "DELAY"
			if e.Rest {
				label = "REST"
			}
			parts = append(parts, fmt.Sprintf("# %s:%dms #", label, e.Micros/1000))
		}
	}
	return strings.Join(parts, " ")
}

// ParseHex converts hex-octet text back into raw bytes. Tokens that
// are not two-digit hex octets (advisory markers included) are
// skipped; the stream decoder resynchronizes on anything it cannot
// model anyway.
func ParseHex(s string) []byte {
	var out []byte
	for _, token := range strings.Fields(s) {
		if len(token) != 2 {
			continue
		}
		v, err := strconv.ParseUint(token, 16, 8)
		if err != nil {
			continue
		}
		out = append(out, byte(v))
	}
	return out
}
