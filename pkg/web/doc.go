// SPDX-License-Identifier: GPL-3.0-or-later

// Package web holds the HTTP settings a collector exposes in its job config
// (HTTPConfig embeds RequestConfig and ClientConfig) and builds requests and
// clients from them, including digest authenticated clients.
package web
