package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"TrendWatch/internal/logger"
	"TrendWatch/internal/model"
	"TrendWatch/internal/recorder"
	"TrendWatch/internal/render"
)

// Controller is the part of the view model the console drives.
type Controller interface {
	SetCoin(ctx context.Context, id string) error
	SetPeriod(ctx context.Context, id string) error
	Refresh(ctx context.Context) error
}

const (
	defaultHistory = 10
	maxHistory     = 100
)

const helpText = `Commands:
  coin <id>      select a coin (see "coins")
  period <id>    select a period (see "periods")
  refresh        fetch the current selection now
  coins          list coins
  periods        list periods
  history [n]    show the last n recorded snapshots
  help           show this text
  quit           exit`

// Console reads one command per line and replies on Out.
type Console struct {
	Controller Controller
	Recorder   recorder.Recorder
	Out        io.Writer
	Limiter    *rate.Limiter
	Location   *time.Location

	log *zap.SugaredLogger
}

// New creates a console. Manual refreshes are limited to one every two seconds.
func New(ctrl Controller, rec recorder.Recorder, out io.Writer) *Console {
	return &Console{
		Controller: ctrl,
		Recorder:   rec,
		Out:        out,
		Limiter:    rate.NewLimiter(rate.Every(2*time.Second), 1),
		log:        logger.Named("console"),
	}
}

// Run processes commands from in until quit, EOF or ctx cancellation.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("read commands: %w", err)
					}
				default:
				}
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			c.log.Debugw("received command", "command", line)
			reply, quit := c.HandleCommand(ctx, line)
			if reply != "" {
				fmt.Fprintln(c.Out, reply)
			}
			if quit {
				return nil
			}
		}
	}
}

// HandleCommand processes a command and returns a reply. quit is true for
// the quit command.
func (c *Console) HandleCommand(ctx context.Context, line string) (reply string, quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	args := fields[1:]

	switch strings.ToLower(fields[0]) {
	case "coin":
		if len(args) != 1 {
			return "usage: coin <id>", false
		}
		return selectReply(c.Controller.SetCoin(ctx, args[0])), false
	case "period":
		if len(args) != 1 {
			return "usage: period <id>", false
		}
		return selectReply(c.Controller.SetPeriod(ctx, args[0])), false
	case "refresh", "r":
		if !c.Limiter.Allow() {
			return "refresh throttled, try again shortly", false
		}
		// A failed fetch is already on screen as the error view.
		_ = c.Controller.Refresh(ctx)
		return "", false
	case "coins":
		return listOptions(model.Coins), false
	case "periods":
		return listOptions(model.Periods), false
	case "history":
		return c.history(args), false
	case "quit", "exit", "q":
		return "bye", true
	default:
		return helpText, false
	}
}

// selectReply only reports rejected ids. Fetch results show up on the screen.
func selectReply(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (c *Console) history(args []string) string {
	n := defaultHistory
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			return "usage: history [n]"
		}
		n = min(v, maxHistory)
	}

	recs, err := c.Recorder.RecentSnapshots(n)
	if err != nil {
		c.log.Errorw("load history", "error", err)
		return "history unavailable: " + err.Error()
	}
	if len(recs) == 0 {
		return "no recorded snapshots"
	}

	var b strings.Builder
	for i, r := range recs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s  %-18s %-8s %14s %8s",
			render.FormatLastUpdate(r.ReceivedAt, c.Location),
			r.Selection.String(),
			r.Snapshot.Trend,
			render.FormatUSD(r.Snapshot.CurrentPrice),
			render.FormatChange(r.Snapshot.PriceChange24h),
		)
	}
	return b.String()
}

func listOptions[T ~string](opts []model.Option[T]) string {
	var b strings.Builder
	for i, o := range opts {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  %-12s %s", o.ID, o.Name)
	}
	return b.String()
}
