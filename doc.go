// Package tempmailbox provides a Go client for a temporary-mailbox
// provisioning service. It creates disposable inboxes, polls them for
// new messages, and deletes messages, while tolerating the service's
// loosely specified response shapes.
//
// Basic usage:
//
//	client := tempmailbox.FromEnv()
//
//	session := client.CreateMailbox(ctx)
//	fmt.Println("address:", session.Address())
//
//	messages, err := client.Messages(ctx, session.Token())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For continuous polling, use a Monitor:
//
//	monitor := client.NewMonitor()
//	defer monitor.Close()
//
//	monitor.OnNewMessages(func(s *tempmailbox.MailboxSession, msgs []tempmailbox.Message) {
//	    fmt.Printf("%d new message(s)\n", len(msgs))
//	})
//	monitor.Open(session)
package tempmailbox
