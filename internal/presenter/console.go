package presenter

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
)

var _ pkgif.Presenter = (*Console)(nil)

var (
	statusStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#bcbcbc"))

	countdownStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#d75f5f"))

	codeLabelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#585858"))

	codeStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5f5fd7")).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#5f5fd7")).
		Padding(0, 2)
)

// Console 终端展示
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	visible bool
}

// NewConsole 创建终端展示，out 为 nil 时写到标准输出
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

// ShowStatus 显示状态文本
func (c *Console) ShowStatus(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = true
	fmt.Fprintln(c.out, statusStyle.Render("• "+text))
}

// ShowCountdown 显示带倒计时的提示
func (c *Console) ShowCountdown(message string, countdown time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = true
	seconds := int((countdown + time.Second - 1) / time.Second)
	fmt.Fprintln(c.out, countdownStyle.Render(fmt.Sprintf("%s (%ds)", message, seconds)))
}

// ShowHostCode 显示可供他人加入的地址
func (c *Console) ShowHostCode(address string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, lipgloss.JoinVertical(lipgloss.Left,
		codeLabelStyle.Render("Share this address to let others join:"),
		codeStyle.Render(address),
	))
}

// HideStatus 隐藏状态
func (c *Console) HideStatus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = false
}

// Visible 状态是否可见
func (c *Console) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}
