package handlers

// HandlerBundle groups the handlers passed to route registration.
type HandlerBundle struct {
	Schedule   *ScheduleHandler
	UserDevice *UserDeviceHandler
}
