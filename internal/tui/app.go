package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/framewm/internal/config"
)

// model is the root bubbletea model for the TUI.
type model struct {
	configPath string
	cfg        *config.Config

	activeTab Tab

	generalTab   GeneralTab
	layoutsTab   LayoutsTab
	shortcutsTab ShortcutsTab
	themeTab     ThemeTab

	// Save overlay
	originalConfig *config.Config
	saveOverlay    SaveOverlay

	width  int
	height int
}

func newModel(configPath string) (model, error) {
	res, path, err := loadConfig(configPath)
	if err != nil {
		return model{}, err
	}
	return newModelWithConfig(path, res.Config), nil
}

func newModelWithConfig(path string, cfg *config.Config) model {
	return model{
		configPath:     path,
		cfg:            cfg,
		activeTab:      TabGeneral,
		originalConfig: cloneConfig(cfg),
		generalTab:     NewGeneralTab(cfg),
		layoutsTab:     NewLayoutsTab(cfg),
		shortcutsTab:   NewShortcutsTab(cfg),
		themeTab:       NewThemeTab(cfg),
	}
}

// dirty reports whether the config differs from what was loaded or last
// saved.
func (m model) dirty() bool {
	return len(diffConfigs(m.originalConfig, m.cfg)) > 0
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	return max(m.height-4, 1)
}

// capturing reports whether the active tab consumes every key.
func (m model) capturing() bool {
	switch m.activeTab {
	case TabGeneral:
		return m.generalTab.editing
	case TabShortcuts:
		return m.shortcutsTab.editing
	}
	return false
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.resizeTabs()
		return m, nil
	}

	// Save overlay captures all input when active
	if m.saveOverlay.Active() {
		if km, ok := msg.(tea.KeyMsg); ok {
			if km.String() == "ctrl+c" {
				return m, tea.Quit
			}
			prevPhase := m.saveOverlay.phase
			m.saveOverlay = m.saveOverlay.Update(km, m.cfg, m.configPath)
			if prevPhase == savePreview && m.saveOverlay.SaveSucceeded() {
				m.originalConfig = cloneConfig(m.cfg)
			}
		}
		return m, nil
	}

	// ctrl+s triggers save overlay from any context (including form editing)
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+s" {
		m.saveOverlay.Show(m.originalConfig, m.cfg)
		return m, nil
	}

	if m.capturing() {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.delegate(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabGeneral
			return m, nil
		case "2":
			// On the layouts tab, 2 is a tile count.
			if m.activeTab != TabLayouts {
				m.activeTab = TabLayouts
				return m, nil
			}
		case "3":
			m.activeTab = TabShortcuts
			return m, nil
		case "4":
			if m.activeTab != TabLayouts {
				m.activeTab = TabTheme
				return m, nil
			}
		}
	}

	return m.delegate(msg)
}

func (m model) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case TabGeneral:
		m.generalTab, cmd = m.generalTab.Update(msg)
		// The form may have changed the default layout.
		m.layoutsTab.rebuildItems()
	case TabLayouts:
		m.layoutsTab, cmd = m.layoutsTab.Update(msg)
	case TabShortcuts:
		m.shortcutsTab, cmd = m.shortcutsTab.Update(msg)
	case TabTheme:
		m.themeTab, cmd = m.themeTab.Update(msg)
	}
	return m, cmd
}

func (m *model) resizeTabs() {
	sub := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	m.generalTab, _ = m.generalTab.Update(sub)
	m.layoutsTab, _ = m.layoutsTab.Update(sub)
	m.shortcutsTab, _ = m.shortcutsTab.Update(sub)
	m.themeTab, _ = m.themeTab.Update(sub)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.configPath, m.dirty(), m.cfg.Tiling.DefaultLayout, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := max(m.height-usedHeight, 1)

	var content string
	if m.saveOverlay.Active() {
		content = m.saveOverlay.View(m.width, contentHeight)
	} else {
		switch m.activeTab {
		case TabGeneral:
			content = m.generalTab.View()
		case TabLayouts:
			content = m.layoutsTab.View()
		case TabShortcuts:
			content = m.shortcutsTab.View()
		case TabTheme:
			content = m.themeTab.View()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
