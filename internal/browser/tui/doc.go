// Package tui implements the interactive script library browser.
//
// The browser is a Bubble Tea program with three screens:
//   - Login: a decorative sign-in panel drawn over the animated marquee.
//     Whatever is typed is forwarded to the injected callback.
//   - Discovery: browses the network for script libraries or takes a URL.
//   - Library: the hero banner, a carousel of script cards and the script
//     modal.
//
// Every screen is wrapped by RenderApplicationContainer, which draws the
// header (name, version, catalog source) and a context-sensitive help footer.
//
// # Library page
//
// Card focus and scroll position live here; selection lives in a
// page.Controller. Pressing enter on a focused card selects it, the modal is
// projected from the controller state on every render, and closing the modal
// returns the controller to idle.
//
// # Live reload
//
// When Options.Updates (or a library chosen on the discovery screen) delivers
// a new catalog, the carousel is re-clamped to the new card count. An open
// modal keeps showing the record it was opened with.
//
//	app := tui.NewAppModel(tui.Options{Catalog: cat, OnLogin: onLogin})
//	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
//	    return err
//	}
package tui
