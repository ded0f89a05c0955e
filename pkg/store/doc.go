/*
Package store implements the shared state store of a jsonms session.

A Store holds five independently observable slots (content, section, locale, structure,
settings). Each slot has a read accessor, a write entry point that replaces the value and
notifies observers, and an observable handle for subscriptions. Slots are independent:
writing one never touches another.

One Store exists per session. It is passed explicitly to the binding, the notifier and any
rendering consumer; there is no package-level instance.
*/
package store
