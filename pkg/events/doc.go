/*
Package events provides an in-memory event broker for otool's pub/sub messaging.

The broker fans every published event out to all subscribers over buffered
channels. It carries three families of events:

	config.created / config.updated / config.seeded   store contents changed
	config.error                                      a submission failed
	notification.discarded                            operator dismissed the outcome
	draft.changed                                     a draft setter ran

# Delivery

	Publisher → Event Channel (buffer: 100)
	     ↓
	Broadcast Loop
	     ↓
	Subscriber Channels (buffer: 50 each)

Delivery is best effort: a subscriber whose buffer is full misses the event.
Consumers that must not miss a state change (the reconciler) re-read the
store on the next event they do receive, so a dropped event only delays
them.

Events get a uuid ID and a timestamp when published without one.
*/
package events
