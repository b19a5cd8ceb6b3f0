// Package page holds the script library page's selection state machine and
// the modal projection derived from it.
//
// # States
//
// The page is either Idle (nothing selected, modal closed) or Viewing a
// record (record selected, modal open):
//
//	Idle ──Select(r)──▶ Viewing(r)
//	Viewing(r) ──Select(r')──▶ Viewing(r')
//	any ──Close()──▶ Idle
//
// There are no loading or error states; records are already in memory.
//
// # Modal
//
// The modal has no state of its own. ProjectModal turns the page State into
// a ModalView, or reports that nothing should be rendered:
//
//	ctrl := page.NewController()
//	ctrl.Select(record)
//	if view, ok := page.ProjectModal(ctrl.State()); ok {
//	    render(view)
//	}
//	ctrl.Close() // the next projection renders nothing
package page
