package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// ErrPopupBlocked is returned when no browser surface can be opened to print on.
var ErrPopupBlocked = errors.New("print surface unavailable")

// Printer turns a rendered report into a PDF document.
type Printer interface {
	PrintPDF(ctx context.Context, html []byte) ([]byte, error)
}

// RodPrinter prints through a headless Chromium driven by go-rod. It attaches
// to controlURL when set, otherwise launches bin (or the launcher default).
type RodPrinter struct {
	bin        string
	controlURL string
	logger     *zap.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

func NewRodPrinter(bin, controlURL string, logger *zap.Logger) *RodPrinter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RodPrinter{
		bin:        bin,
		controlURL: controlURL,
		logger:     logger,
	}
}

// PrintPDF opens a new page, loads html into it and prints it.
func (p *RodPrinter) PrintPDF(ctx context.Context, html []byte) ([]byte, error) {
	browser, err := p.ensureBrowser()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPopupBlocked, err)
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		p.reset()
		return nil, fmt.Errorf("%w: open page: %v", ErrPopupBlocked, err)
	}
	defer func() { _ = page.Close() }()

	if err := page.SetDocumentContent(string(html)); err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait report load: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{PrintBackground: true})
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	out, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read pdf stream: %w", err)
	}
	return out, nil
}

// Close shuts the browser down if one was started.
func (p *RodPrinter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.browser == nil {
		return nil
	}
	err := p.browser.Close()
	p.browser = nil
	return err
}

func (p *RodPrinter) ensureBrowser() (*rod.Browser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.browser != nil {
		return p.browser, nil
	}

	controlURL := p.controlURL
	if controlURL == "" {
		l := launcher.New().Headless(true)
		if p.bin != "" {
			l = l.Bin(p.bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	p.logger.Info("pdf printer connected", zap.String("control_url", controlURL))
	p.browser = browser
	return browser, nil
}

// reset drops a browser that stopped answering so the next call reconnects.
func (p *RodPrinter) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.browser != nil {
		_ = p.browser.Close()
		p.browser = nil
	}
}
