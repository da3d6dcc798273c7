package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case RegisterResult:
		o.printRegisterResult(v)
	case LoginResult:
		o.printLoginResult(v)
	case MessageResult:
		fmt.Println(v.Message)
	case Ship:
		o.printShip(v)
	case ShipList:
		o.printShipList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// RegisterResult response type (matches API)
type RegisterResult struct {
	UserID  int64  `json:"id_user"`
	Message string `json:"message"`
}

// LoginResult response type
type LoginResult struct {
	Token string `json:"token"`
}

// MessageResult is a plain acknowledgement
type MessageResult struct {
	Message string `json:"message"`
}

// Ship response type
type Ship struct {
	ID            int64     `json:"id_kapal"`
	Name          string    `json:"nama_kapal"`
	Type          string    `json:"jenis_kapal"`
	CargoCapacity float64   `json:"kapasitas_muatan"`
	RegisteredAt  time.Time `json:"waktu_terdaftar"`
}

// ShipList is the response for listing ships
type ShipList []Ship

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRegisterResult(r RegisterResult) {
	fmt.Printf("%s (id %d)\n", r.Message, r.UserID)
}

func (o *Output) printLoginResult(l LoginResult) {
	fmt.Println("Logged in")
	fmt.Printf("Token: %s\n", l.Token)
}

func (o *Output) printShip(s Ship) {
	fmt.Printf("Ship: %s (%d)\n", s.Name, s.ID)
	fmt.Printf("Type: %s\n", s.Type)
	fmt.Printf("Capacity: %g\n", s.CargoCapacity)
	fmt.Printf("Registered: %s\n", s.RegisteredAt.Format(time.RFC3339))
}

func (o *Output) printShipList(ships ShipList) {
	if len(ships) == 0 {
		fmt.Println("No ships registered")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tTYPE\tCAPACITY\tREGISTERED")
	for _, s := range ships {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%g\t%s\n",
			s.ID, s.Name, s.Type, s.CargoCapacity, s.RegisteredAt.Format(time.RFC3339))
	}
	_ = w.Flush()
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
