// Package pagination shows a slice of embeds one page at a time with button
// and select menu navigation.
//
// A session belongs to the user who started it. Other users get an ephemeral
// notice and cannot move the page. The session ends on the stop button, on
// timeout, or when the context is cancelled; the last render either keeps
// the controls disabled or removes them.
//
//	p, err := pagination.New(pages, pagination.Options{
//		Buttons: []pagination.ButtonSpec{{Label: "Prev"}, {Label: "Next"}},
//	})
//	if err != nil {
//		return err // *ValidationError
//	}
//	go p.Run(ctx, pagination.NewInteractionReply(s, i.Interaction, false), pagination.NewSessionHost(s))
package pagination
