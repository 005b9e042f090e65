package display

import (
	"fmt"
	"io"

	"github.com/backmassage/exrlayers/internal/term"
)

// PrintBanner writes the ASCII art banner to w, in magenta when colors are
// enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `                 _
  _____  ___ __ | | __ _ _   _  ___ _ __ ___
 / _ \ \/ / '__|| |/ _`+"`"+` | | | |/ _ \ '__/ __|
|  __/>  <| |   | | (_| | |_| |  __/ |  \__ \
 \___/_/\_\_|   |_|\__,_|\__, |\___|_|  |___/
                         |___/
`)
	fmt.Fprint(w, term.NC)
}
