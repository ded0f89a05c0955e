/*
Package notifier posts debounced locale and route notifications to a parent context.

Each message type (locale, route) runs its own small state machine:

	idle --change--> pending --timer fires--> idle (message sent)
	pending --change--> pending (timer re-armed, latest value kept)

Only the latest value of a burst is sent. Delivery failures are logged and
reported to hooks but never returned to the caller.

Timers come from a Scheduler. The default scheduler wraps time.AfterFunc;
ManualScheduler fires armed timers on Tick, for hosts that run their own loop
and for tests.
*/
package notifier
