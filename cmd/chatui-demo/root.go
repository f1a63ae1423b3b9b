package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	chatui "github.com/mohsinalimat/chatui"
	"github.com/mohsinalimat/chatui/pubsub"
	"github.com/mohsinalimat/chatui/store"
	"github.com/mohsinalimat/chatui/styles"
)

func newRootCmd() *cobra.Command {
	var (
		themePath    string
		hint         string
		safeArea     int
		hideOnScroll bool
		hideOnTap    bool
		noEcho       bool
	)

	cmd := &cobra.Command{
		Use:   "chatui-demo",
		Short: "Interactive demo of the chat screen widget",
		Long: `chatui-demo hosts the chat screen widget in a terminal session.

Messages you send are echoed back by a simulated peer after a short
delay. A fake on-screen keyboard appears periodically to demonstrate
keyboard avoidance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("chatui-demo requires a terminal")
			}

			var style styles.Style
			if themePath != "" {
				var err error
				style, err = styles.Load(themePath)
				if err != nil {
					return err
				}
			}

			name := "me"
			form := huh.NewForm(huh.NewGroup(
				huh.NewInput().
					Title("Display name").
					Placeholder("me").
					Value(&name),
			))
			if err := form.Run(); err != nil {
				return err
			}
			if strings.TrimSpace(name) == "" {
				name = "me"
			}

			broker := pubsub.NewKeyboardBroker()

			var p *tea.Program
			cfg := chatui.Config{
				Broker:         broker,
				Hint:           hint,
				Style:          style,
				SafeAreaBottom: safeArea,
				Options: chatui.Options{
					HideKeyboardOnScroll: hideOnScroll,
					HideKeyboardOnTap:    hideOnTap,
				},
				OnSend: func(msg store.Message) {
					if noEcho {
						return
					}
					time.Sleep(900 * time.Millisecond)
					p.Send(chatui.AddMessageMsg{Message: store.Message{
						Text:       fmt.Sprintf("%s, you said: %s", name, strings.TrimSpace(msg.Text)),
						DateString: time.Now().Format("15:04"),
					}})
				},
			}

			p = chatui.NewProgram(cmd.Context(), cfg)

			// A pretend keyboard slides in and out to exercise
			// avoidance.
			go fakeKeyboard(broker, cmd.Context().Done())

			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("running demo: %w", err)
			}

			if transcript := final.(chatui.Screen).Transcript(); transcript != "" {
				fmt.Print(transcript)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&themePath, "theme", "", "path to a YAML theme file")
	cmd.Flags().StringVar(&hint, "hint", "", "input placeholder text")
	cmd.Flags().IntVar(&safeArea, "safe-area", 0, "rows reserved at the bottom of the screen")
	cmd.Flags().BoolVar(&hideOnScroll, "hide-keyboard-on-scroll", true, "blur the input when the list scrolls")
	cmd.Flags().BoolVar(&hideOnTap, "hide-keyboard-on-tap", true, "blur the input when the list is clicked")
	cmd.Flags().BoolVar(&noEcho, "no-echo", false, "disable the simulated peer")

	return cmd
}

// fakeKeyboard periodically publishes will-show and will-hide notifications
// with a fixed height, standing in for a platform keyboard.
func fakeKeyboard(broker *pubsub.KeyboardBroker, done <-chan struct{}) {
	ticker := time.NewTicker(8 * time.Second)
	defer ticker.Stop()

	shown := false
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if shown {
				broker.Publish(pubsub.Event[pubsub.KeyboardEvent]{
					Name: pubsub.WillHideNotification,
				})
			} else {
				broker.Publish(pubsub.Event[pubsub.KeyboardEvent]{
					Name:    pubsub.WillShowNotification,
					Payload: pubsub.KeyboardEvent{Geometry: &pubsub.Geometry{Height: 6}},
				})
			}
			shown = !shown
		}
	}
}
