package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stefanpenner/quadrant/pkg/controller"
	"github.com/stefanpenner/quadrant/pkg/store"
	"github.com/stefanpenner/quadrant/pkg/task"
	"github.com/stefanpenner/quadrant/pkg/view"
	"golang.org/x/term"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	blue   = color.New(color.FgBlue).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var categoryColor = map[task.Category]func(a ...interface{}) string{
	task.CategoryDoNow:    red,
	task.CategoryDoLater:  yellow,
	task.CategoryDelegate: cyan,
	task.CategoryPostpone: blue,
}

func (a *app) newListCommand() *cobra.Command {
	var mode string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks by quadrant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := view.ParseMode(mode)
			if err != nil {
				return err
			}
			ctrl, _, err := a.openController(nil)
			if err != nil {
				return err
			}
			if _, err := ctrl.Dispatch(controller.Command{Action: controller.ActionSwitchMode, Mode: m}); err != nil {
				return err
			}

			if jsonOut {
				return outputJSON(cmd.OutOrStdout(), boardJSON(ctrl))
			}
			printBoard(cmd.OutOrStdout(), ctrl.Board(), ctrl.Visibility())
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", string(view.ModeAll), "current, all or completed")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")
	return cmd
}

func (a *app) newAddCommand() *cobra.Command {
	var priority, urgency int

	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, err := a.openController(nil)
			if err != nil {
				return err
			}
			res, err := ctrl.Dispatch(controller.Command{
				Action:   controller.ActionAdd,
				Text:     strings.Join(args, " "),
				Priority: task.Level(priority),
				Urgency:  task.Level(urgency),
			})
			if res.Task == nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added to %s: %s %s\n",
				colorCategory(res.Task.Category), res.Task.Text, gray(res.Task.ID))
			return err
		},
	}
	cmd.Flags().IntVarP(&priority, "priority", "p", int(task.DefaultLevel), "priority 1-5")
	cmd.Flags().IntVarP(&urgency, "urgency", "u", int(task.DefaultLevel), "urgency 1-5")
	return cmd
}

func (a *app) newToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task done, or reopen it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, err := a.openController(nil)
			if err != nil {
				return err
			}
			id, err := resolveID(ctrl.Board(), args[0])
			if err != nil {
				return err
			}
			res, err := ctrl.Dispatch(controller.Command{Action: controller.ActionToggle, ID: id})
			if res.Task == nil {
				return err
			}
			state := yellow("reopened")
			if res.Task.Completed {
				state = green("done")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s → %s\n", res.Task.Text, state)
			return err
		},
	}
}

func (a *app) newEditCommand() *cobra.Command {
	var text string
	var priority, urgency int

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's text, priority or urgency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, err := a.openController(nil)
			if err != nil {
				return err
			}
			id, err := resolveID(ctrl.Board(), args[0])
			if err != nil {
				return err
			}
			current, _ := ctrl.Task(id)

			edit := controller.Command{
				Action:   controller.ActionSaveEdit,
				ID:       id,
				Text:     current.Text,
				Priority: current.Priority,
				Urgency:  current.Urgency,
			}
			flags := cmd.Flags()
			if flags.Changed("text") {
				edit.Text = text
			}
			if flags.Changed("priority") {
				edit.Priority = task.Level(priority)
			}
			if flags.Changed("urgency") {
				edit.Urgency = task.Level(urgency)
			}

			if _, err := ctrl.Dispatch(controller.Command{Action: controller.ActionEdit, ID: id}); err != nil {
				return err
			}
			res, err := ctrl.Dispatch(edit)
			if res.Task == nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s (%s, P%d U%d)\n",
				res.Task.Text, colorCategory(res.Task.Category), res.Task.Priority, res.Task.Urgency)
			return err
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "new text")
	cmd.Flags().IntVarP(&priority, "priority", "p", 0, "new priority 1-5")
	cmd.Flags().IntVarP(&urgency, "urgency", "u", 0, "new urgency 1-5")
	return cmd
}

func (a *app) newDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			confirm := func(t *task.Task) bool {
				if yes {
					return true
				}
				return promptYesNo(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete '%s'?", t.Text))
			}
			if !yes && !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New("refusing to delete without --yes when stdin is not a terminal")
			}

			ctrl, _, err := a.openController(confirm)
			if err != nil {
				return err
			}
			id, err := resolveID(ctrl.Board(), args[0])
			if err != nil {
				return err
			}
			res, err := ctrl.Dispatch(controller.Command{Action: controller.ActionDelete, ID: id})
			if !res.Changed {
				if err == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", res.Task.Text)
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (a *app) newStatsCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, err := a.openController(nil)
			if err != nil {
				return err
			}
			b := ctrl.Board()
			if jsonOut {
				counts := map[string]int{}
				for _, c := range task.Categories {
					counts[string(c)] = len(b.Quadrant(c))
				}
				return outputJSON(cmd.OutOrStdout(), map[string]interface{}{
					"summary":   b.Summary,
					"quadrants": counts,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %d  %s %d  %s %d\n",
				bold("Total"), b.Summary.Total,
				green("Completed"), b.Summary.Completed,
				yellow("Pending"), b.Summary.Pending)
			for _, c := range task.Categories {
				fmt.Fprintf(out, "  %-20s %d\n", colorCategory(c), len(b.Quadrant(c)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")
	return cmd
}

func (a *app) newBoardCommand() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Render the board as formatted markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, err := a.openController(nil)
			if err != nil {
				return err
			}
			if width <= 0 {
				width = 80
				if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
					width = w
				}
			}

			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(width-4),
			)
			if err != nil {
				return fmt.Errorf("creating markdown renderer: %w", err)
			}
			out, err := r.Render(boardMarkdown(ctrl.Board()))
			if err != nil {
				return fmt.Errorf("rendering board: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "wrap width (default: terminal width)")
	return cmd
}

func (a *app) newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import tasks from a YAML or legacy JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			tasks, err := store.Decode(data)
			if err != nil {
				return fmt.Errorf("decoding %s: %w", args[0], err)
			}
			s, _, err := a.openStore(a.log)
			if err != nil {
				return err
			}
			n, err := s.Import(tasks)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d tasks\n", n, len(tasks))
			return err
		},
	}
}

// Output helpers

func colorCategory(c task.Category) string {
	if f, ok := categoryColor[c]; ok {
		return f(c.Label())
	}
	return c.Label()
}

func printBoard(w io.Writer, b view.Board, vis view.Visibility) {
	if vis.Quadrants {
		for _, c := range task.Categories {
			fmt.Fprintf(w, "%s %s\n", bold(colorCategory(c)), gray(fmt.Sprintf("(%d)", len(b.Quadrant(c)))))
			if len(b.Quadrant(c)) == 0 {
				fmt.Fprintf(w, "  %s\n", gray(view.Placeholder(c)))
			}
			for _, t := range b.Quadrant(c) {
				fmt.Fprintf(w, "  ○ %s  %s %s\n", t.Text, levels(t), gray(t.ID))
			}
			fmt.Fprintln(w)
		}
	}
	if vis.Completed {
		fmt.Fprintf(w, "%s %s\n", bold(green("Completed")), gray(fmt.Sprintf("(%d)", len(b.Completed))))
		if len(b.Completed) == 0 {
			fmt.Fprintf(w, "  %s\n", gray(view.CompletedPlaceholder))
		}
		for _, t := range b.Completed {
			fmt.Fprintf(w, "  %s %s  %s %s\n", green("✓"), t.Text, levels(t), gray(t.ID))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d tasks · %d done · %d pending\n", b.Summary.Total, b.Summary.Completed, b.Summary.Pending)
}

func levels(t *task.Task) string {
	return gray(fmt.Sprintf("P%d U%d", t.Priority, t.Urgency))
}

// boardMarkdown renders the whole board as a markdown checklist.
func boardMarkdown(b view.Board) string {
	var md strings.Builder
	md.WriteString("# Eisenhower Matrix\n\n")
	fmt.Fprintf(&md, "**%d** tasks, **%d** done, **%d** pending\n\n", b.Summary.Total, b.Summary.Completed, b.Summary.Pending)

	for _, c := range task.Categories {
		fmt.Fprintf(&md, "## %s\n\n", c.Label())
		if len(b.Quadrant(c)) == 0 {
			fmt.Fprintf(&md, "_%s_\n\n", view.Placeholder(c))
			continue
		}
		for _, t := range b.Quadrant(c) {
			fmt.Fprintf(&md, "- [ ] %s `P%d U%d`\n", t.Text, t.Priority, t.Urgency)
		}
		md.WriteString("\n")
	}

	md.WriteString("## Completed\n\n")
	if len(b.Completed) == 0 {
		fmt.Fprintf(&md, "_%s_\n", view.CompletedPlaceholder)
	}
	for _, t := range b.Completed {
		when := ""
		if t.CompletedAt != nil {
			when = " (" + t.CompletedAt.Local().Format("2006-01-02") + ")"
		}
		fmt.Fprintf(&md, "- [x] ~~%s~~%s\n", t.Text, when)
	}
	return md.String()
}

// boardJSON is the list --json payload, restricted to the visible sections.
func boardJSON(ctrl *controller.Controller) map[string]interface{} {
	b := ctrl.Board()
	vis := ctrl.Visibility()
	out := map[string]interface{}{
		"mode":    ctrl.Mode(),
		"summary": b.Summary,
	}
	if vis.Quadrants {
		quadrants := map[string][]*task.Task{}
		for _, c := range task.Categories {
			quadrants[string(c)] = nonNil(b.Quadrant(c))
		}
		out["quadrants"] = quadrants
	}
	if vis.Completed {
		out["completed"] = nonNil(b.Completed)
	}
	return out
}

func nonNil(tasks []*task.Task) []*task.Task {
	if tasks == nil {
		return []*task.Task{}
	}
	return tasks
}

func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// resolveID accepts a full task ID or a unique suffix of one.
func resolveID(b view.Board, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.New("task id must not be empty")
	}

	var all []*task.Task
	for _, c := range task.Categories {
		all = append(all, b.Quadrant(c)...)
	}
	all = append(all, b.Completed...)

	var matches []string
	for _, t := range all {
		if t.ID == ref {
			return t.ID, nil
		}
		if strings.HasSuffix(t.ID, ref) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no task with id %q", ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func promptYesNo(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
