package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sarukas/midi2text/constants"
	"github.com/sarukas/midi2text/decoder"
	"github.com/sarukas/midi2text/encoder"
	"github.com/sarukas/midi2text/model"
	"github.com/sarukas/midi2text/notation"
	"github.com/spf13/cobra"
)

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the codec over HTTP",
	Long: `Serves a JSON API: POST /encode converts notation to MIDI hex,
POST /decode converts MIDI hex back to notation.`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

func HandleEncode(w http.ResponseWriter, r *http.Request) {
	requestId := uuid.New().String()
	w.Header().Set("X-Request-Id", requestId)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, 400, "could not read request body")
		return
	}

	input := model.EncodeRequest{
		Channel:  constants.DefaultChannel,
		Velocity: constants.DefaultVelocity,
		NoteOff:  constants.DefaultNoteOff,
		BPM:      constants.DefaultBPM,
	}
	if err := json.Unmarshal(body, &input); err != nil {
		writeError(w, 400, "could not unmarshal request body: "+err.Error())
		return
	}

	if input.Channel < 1 || input.Channel > 16 {
		writeError(w, 400, fmt.Sprintf("MIDI channel must be between 1 and 16, got %d", input.Channel))
		return
	}
	if input.Velocity < 0 || input.Velocity > 127 {
		writeError(w, 400, fmt.Sprintf("velocity must be between 0 and 127, got %d", input.Velocity))
		return
	}
	if input.BPM < 30 || input.BPM > 300 {
		writeError(w, 400, fmt.Sprintf("BPM must be between 30 and 300, got %d", input.BPM))
		return
	}
	policy, err := encoder.ParsePolicy(input.NoteOff)
	if err != nil {
		writeError(w, 400, err.Error())
		return
	}

	elements, skipped, err := Encode(input.Notation, input.Channel, input.Velocity, input.BPM, policy)
	if err != nil {
		writeError(w, 400, err.Error())
		return
	}

	res := model.EncodeResponse{
		RequestId: requestId,
		Hex:       encoder.RenderHex(elements),
	}
	for _, skip := range skipped {
		res.Skipped = append(res.Skipped, skip.Error())
	}
	json.NewEncoder(w).Encode(res)
}

func HandleDecode(w http.ResponseWriter, r *http.Request) {
	requestId := uuid.New().String()
	w.Header().Set("X-Request-Id", requestId)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, 400, "could not read request body")
		return
	}

	input := model.DecodeRequest{BPM: constants.DefaultBPM}
	if err := json.Unmarshal(body, &input); err != nil {
		writeError(w, 400, "could not unmarshal request body: "+err.Error())
		return
	}

	if input.BPM < 30 || input.BPM > 300 {
		writeError(w, 400, fmt.Sprintf("BPM must be between 30 and 300, got %d", input.BPM))
		return
	}
	if input.ChannelFilter < 0 || input.ChannelFilter > 16 {
		writeError(w, 400, fmt.Sprintf("channel filter must be between 0 (all) and 16, got %d", input.ChannelFilter))
		return
	}

	// The bytes arrive all at once, so notes quantize against the
	// processing clock and come out at the 1-tick minimum. Gaps carry
	// no wall-clock time either, so no rests are reconstructed.
	var events []model.TimedEvent
	session := decoder.NewSession(input.BPM, input.ChannelFilter, func(ev model.NoteEvent, _, _ time.Time) {
		events = append(events, ev)
	})
	for _, b := range encoder.ParseHex(input.Hex) {
		session.Feed(b)
	}
	session.Flush(session.Now())

	json.NewEncoder(w).Encode(model.DecodeResponse{
		RequestId: requestId,
		Notation:  notation.Render(events),
	})
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/encode", HandleEncode).Methods("POST")
	router.HandleFunc("/decode", HandleDecode).Methods("POST")

	handler := cors.Default().Handler(router)
	log.Fatal(http.ListenAndServe(serveAddr, handler))
}
