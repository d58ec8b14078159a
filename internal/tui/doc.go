// Package tui implements the full-screen terminal programs of otpview.
//
// Two Bubble Tea models live here:
//
//   - PromptModel hosts an otpfield.Model. It adds a title, a status line
//     and submit/quit bindings, and accepts AutofillMsg from the autofill
//     listener.
//   - PickerModel browses for autofill listeners over mDNS and lets the
//     user pick one, or type an address, before a push.
//
// Both screens are wrapped by RenderApplicationContainer, which draws the
// header with name and version, the content and a footer with context help.
//
// # Usage Example
//
//	field, err := otpfield.New(cfg)
//	if err != nil {
//	    return err
//	}
//	prompt := tui.NewPromptModel(field, tui.PromptOptions{Title: "Sign in"})
//	program := tea.NewProgram(prompt, tea.WithAltScreen(), tea.WithMouseCellMotion())
//
//	final, err := program.Run()
//	if err != nil {
//	    return err
//	}
//	if p := final.(tui.PromptModel); p.Submitted {
//	    fmt.Println(p.Value())
//	}
//
// Mouse clicks reach the right cell because the prompt reports the field's
// screen origin with otpfield.Model.SetOrigin on every resize.
package tui
