package picker

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/search"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	folderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginBottom(1)
)

// Picker lets the user choose one item from fuzzy search results.
type Picker struct {
	results   []search.ItemResult
	folders   map[int64]string
	query     string
	cursor    int
	selected  bool
	cancelled bool
	width     int
	height    int
}

// New creates a Picker over results. folders maps folder IDs to the names
// shown under each game.
func New(results []search.ItemResult, folders map[int64]string, query string) Picker {
	return Picker{
		results: results,
		folders: folders,
		query:   query,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			p.cancelled = true
			return p, tea.Quit
		case tea.KeyEnter:
			p.selected = true
			return p, tea.Quit
		case tea.KeyDown:
			p.down()
			return p, nil
		case tea.KeyUp:
			p.up()
			return p, nil
		}

		if msg.Type == tea.KeyRunes {
			switch string(msg.Runes) {
			case "j":
				p.down()
			case "k":
				p.up()
			case "q":
				p.cancelled = true
				return p, tea.Quit
			}
		}
	}

	return p, nil
}

func (p *Picker) down() {
	if p.cursor < len(p.results)-1 {
		p.cursor++
	}
}

func (p *Picker) up() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Find: %s (%d results)", p.query, len(p.results))))
	b.WriteString("\n\n")

	for i, r := range p.results {
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		b.WriteString(fmt.Sprintf("%s%s\n", cursor, style.Render(r.Item.GameID)))
		b.WriteString(fmt.Sprintf("   %s\n", folderStyle.Render(fmt.Sprintf("%s #%d", p.folders[r.Item.FolderID], r.Item.SortOrder))))
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render("j/k: move  Enter: select  q/Esc: cancel"))

	return b.String()
}

// Selected returns the chosen item, or nil if the picker was cancelled.
func (p Picker) Selected() *model.Item {
	if p.cancelled || !p.selected {
		return nil
	}
	if p.cursor < len(p.results) {
		return p.results[p.cursor].Item
	}
	return nil
}

// Cancelled reports whether the user backed out.
func (p Picker) Cancelled() bool {
	return p.cancelled
}

// Run shows the picker on the terminal and returns the chosen item. A
// single result is returned without asking.
func Run(results []search.ItemResult, folders map[int64]string, query string) (*model.Item, error) {
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0].Item, nil
	}

	final, err := tea.NewProgram(New(results, folders, query)).Run()
	if err != nil {
		return nil, err
	}
	return final.(Picker).Selected(), nil
}
