package content

// ASCIIArt is the banner above the hardcore terminal.
const ASCIIArt = `
 ██████╗ ██████╗ ███╗   ███╗██╗███╗   ██╗ ██████╗
██╔════╝██╔═══██╗████╗ ████║██║████╗  ██║██╔════╝
██║     ██║   ██║██╔████╔██║██║██╔██╗ ██║██║  ███╗
██║     ██║   ██║██║╚██╔╝██║██║██║╚██╗██║██║   ██║
╚██████╗╚██████╔╝██║ ╚═╝ ██║██║██║ ╚████║╚██████╔╝
 ╚═════╝ ╚═════╝ ╚═╝     ╚═╝╚═╝╚═╝  ╚═══╝ ╚═════╝
                 ███████╗ ██████╗  ██████╗ ███╗   ██╗
                 ██╔════╝██╔═══██╗██╔═══██╗████╗  ██║
                 ███████╗██║   ██║██║   ██║██╔██╗ ██║
                 ╚════██║██║   ██║██║   ██║██║╚██╗██║
                 ███████║╚██████╔╝╚██████╔╝██║ ╚████║
                 ╚══════╝ ╚═════╝  ╚═════╝ ╚═╝  ╚═══╝
`

var bootScript = [...]string{
	"$ initializing terminal...",
	"$ loading hardcore mode...",
	"$ ERROR: module not yet deployed",
	"$ status: UNDER CONSTRUCTION 🚧",
	"$ check back soon...",
}

// BootScript returns a fresh copy of the hardcore boot sequence.
func BootScript() []string {
	out := make([]string, len(bootScript))
	copy(out, bootScript[:])
	return out
}
