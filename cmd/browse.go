package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/solution-finder/internal/catalog"
	"github.com/ziadkadry99/solution-finder/internal/render"
	"github.com/ziadkadry99/solution-finder/internal/scoring"
	"github.com/ziadkadry99/solution-finder/internal/wizard"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Walk the guided wizard in the terminal",
	Long:  `Runs the three-step wizard interactively: pick a business category, select needs, then review ranked matches. Search mode and back/forward navigation work as in the web wizard.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.loader.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading catalog from %s: %w", describeSource(a.cfg), err)
		}

		b, err := newBrowser(c)
		if err != nil {
			return err
		}
		return b.run()
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

// errQuit ends the browse loop.
var errQuit = errors.New("quit")

type menuItem struct {
	Label string
	run   func() error
}

// browser drives a wizard.Machine from terminal menus. The Stack plays the
// part of the browser history.
type browser struct {
	machine *wizard.Machine
	stack   *wizard.Stack
	// ask reads free text; replaced in tests.
	ask func(label, def string) (string, error)
}

func newBrowser(c *catalog.Catalog) (*browser, error) {
	stack := wizard.NewStack()
	m, err := wizard.NewMachine(c, stack)
	if err != nil {
		return nil, err
	}
	return &browser{machine: m, stack: stack, ask: askText}, nil
}

func (b *browser) run() error {
	for {
		v := wizard.Render(b.machine.Catalog(), b.machine.State())
		if v.Modal != nil {
			fmt.Println()
			fmt.Println(render.Markdown(*v.Modal))
			if _, err := b.machine.Dispatch(wizard.CloseModal()); err != nil {
				return err
			}
			continue
		}

		fmt.Println()
		color.Cyan(v.Prompt)
		if v.Notice != "" {
			color.Yellow(v.Notice)
		}

		items := b.menu(v)
		sel := promptui.Select{
			Label: v.State.Step.String(),
			Items: labels(items),
			Size:  12,
		}
		idx, _, err := sel.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("menu: %w", err)
		}

		err = items[idx].run()
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			color.Red("%v", err)
		}
	}
}

// menu lists the actions available for the current view.
func (b *browser) menu(v wizard.View) []menuItem {
	s := v.State
	var items []menuItem

	switch {
	case s.SearchMode:
		for _, r := range v.Results {
			id := r.Solution.ID
			items = append(items, menuItem{
				Label: fmt.Sprintf("%s (%d mentions)", r.Solution.Name, r.MatchCount),
				run:   b.dispatch(wizard.OpenModal(id)),
			})
		}
		items = append(items,
			menuItem{Label: "New keywords", run: b.query},
			menuItem{Label: "Exit search", run: b.dispatch(wizard.ExitSearch())},
		)

	case s.Step == wizard.StepCategory:
		for _, name := range v.Categories {
			items = append(items, menuItem{Label: name, run: b.dispatch(wizard.ChooseCategory(name))})
		}
		items = append(items, menuItem{Label: "Search all solutions", run: b.search})

	case s.Step == wizard.StepFeatures:
		for _, f := range v.Features {
			mark := "[ ]"
			if f.Selected {
				mark = "[x]"
			}
			items = append(items, menuItem{
				Label: mark + " " + f.Label,
				run:   b.dispatch(wizard.ToggleFeature(f.Label)),
			})
		}
		items = append(items,
			menuItem{Label: "Select all", run: b.dispatch(wizard.SelectAll())},
			menuItem{Label: "Clear all", run: b.dispatch(wizard.ClearAll())},
			menuItem{Label: "See matches", run: b.dispatch(wizard.ToStep3())},
			menuItem{Label: "Change category", run: b.dispatch(wizard.BackToStep1())},
		)

	default:
		for _, r := range v.Ranked {
			items = append(items, menuItem{
				Label: rankedLabel(r),
				run:   b.dispatch(wizard.OpenModal(r.Solution.ID)),
			})
		}
		items = append(items,
			menuItem{Label: "Adjust needs", run: b.dispatch(wizard.AdjustNeeds())},
			menuItem{Label: "Search all solutions", run: b.search},
		)
	}

	if s.Step != wizard.StepCategory || s.SearchMode {
		items = append(items, menuItem{Label: "Start over", run: b.dispatch(wizard.Reset())})
	}
	if _, cursor := b.stack.Entries(); cursor > 0 {
		items = append(items, menuItem{Label: "< Back", run: b.back})
	}
	if entries, cursor := b.stack.Entries(); cursor < len(entries)-1 {
		items = append(items, menuItem{Label: "> Forward", run: b.forward})
	}
	return append(items, menuItem{Label: "Quit", run: func() error { return errQuit }})
}

func (b *browser) dispatch(ev wizard.Event) func() error {
	return func() error {
		_, err := b.machine.Dispatch(ev)
		return err
	}
}

func (b *browser) search() error {
	if _, err := b.machine.Dispatch(wizard.EnterSearch()); err != nil {
		return err
	}
	return b.query()
}

func (b *browser) query() error {
	q, err := b.ask("Keywords", b.machine.State().SearchQuery)
	if err != nil {
		return err
	}
	_, err = b.machine.Dispatch(wizard.SetQuery(q))
	return err
}

func (b *browser) back() error {
	entry, ok := b.stack.Back()
	if !ok {
		return errors.New("already at the first page")
	}
	b.machine.Navigate(entry)
	return nil
}

func (b *browser) forward() error {
	entry, ok := b.stack.Forward()
	if !ok {
		return errors.New("already at the latest page")
	}
	b.machine.Navigate(entry)
	return nil
}

func rankedLabel(r scoring.Ranked) string {
	return fmt.Sprintf("%s (%d%% match)", r.Solution.Name, r.Score)
}

func labels(items []menuItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}

func askText(label, def string) (string, error) {
	p := promptui.Prompt{Label: label, Default: def}
	return p.Run()
}
