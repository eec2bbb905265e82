package main

// ShellStatus is a point-in-time snapshot of the native shell for the
// settings/debug surface.
type ShellStatus struct {
	OverlayVisible     bool   `json:"overlay_visible"`
	TrayActive         bool   `json:"tray_active"`
	ConfigPath         string `json:"config_path"`
	ActivationEndpoint string `json:"activation_endpoint"`
	EventMirrorURL     string `json:"event_mirror_url"`
	StatePersisted     bool   `json:"state_persisted"`
}

// GetStatus reports the current shell state.
func (a *App) GetStatus() ShellStatus {
	a.overlayMu.Lock()
	visible := a.overlayVisible
	a.overlayMu.Unlock()

	a.trayMu.Lock()
	trayActive := a.trayCtl != nil
	a.trayMu.Unlock()

	status := ShellStatus{
		OverlayVisible: visible,
		TrayActive:     trayActive,
		ConfigPath:     a.configPath,
		EventMirrorURL: a.GetEventMirrorURL(),
		StatePersisted: a.state != nil,
	}
	if a.ipcServer != nil {
		status.ActivationEndpoint = a.ipcServer.Endpoint()
	}
	return status
}
