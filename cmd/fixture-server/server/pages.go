package server

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/go-logr/logr"
)

type pageData struct {
	DelayMS int64
}

func render(t *template.Template, data pageData, log logr.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := t.Execute(&buf, data); err != nil {
			log.Error(err, "failed to render page", "page", t.Name())
			http.Error(w, "failed to render page", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	}
}

// indexPage is the main fixture. Every button schedules its DOM change
// after the configured delay.
//
//	#refresh     replaces #region's content with new nodes
//	#grow        appends an item to #list
//	#open-popup  opens /popup in a new window
//	#popup-alert opens /popup?alert=1, which alerts as soon as it loads
//	#show-alert  raises an alert
//	#focus       focuses #focus-target
//	#toggle      flips class and data-state on #status, hides #banner
//	#empty       removes everything from #region
var indexPage = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>pagewait fixtures</title>
    <style>
        body { font-family: sans-serif; max-width: 800px; margin: 40px auto; }
        .hidden { display: none; }
        #status.active { color: #155724; }
    </style>
</head>
<body>
    <h1>pagewait fixtures</h1>

    <div id="region"><p class="content">version 1</p></div>
    <button id="refresh">Refresh</button>
    <button id="empty">Empty</button>

    <ul id="list">
        <li class="item">item 1</li>
        <li class="item">item 2</li>
    </ul>
    <button id="grow">Grow</button>

    <div id="status" class="idle" data-state="off">off</div>
    <div id="banner">Welcome</div>
    <button id="toggle">Toggle</button>

    <input id="focus-target" type="text">
    <button id="focus">Focus</button>

    <button id="open-popup">Open popup</button>
    <button id="popup-alert">Open alerting popup</button>
    <button id="show-alert">Show alert</button>

    <iframe id="frame" src="/frame"></iframe>

    <script>
        const delay = {{.DelayMS}};
        const later = (fn) => setTimeout(fn, delay);
        const $ = (id) => document.getElementById(id);
        let version = 1;

        $('refresh').addEventListener('click', () => later(() => {
            version++;
            const p = document.createElement('p');
            p.className = 'content';
            p.textContent = 'version ' + version;
            $('region').replaceChildren(p);
        }));

        $('empty').addEventListener('click', () => later(() => {
            $('region').replaceChildren();
        }));

        $('grow').addEventListener('click', () => later(() => {
            const li = document.createElement('li');
            li.className = 'item';
            li.textContent = 'item ' + ($('list').children.length + 1);
            $('list').appendChild(li);
        }));

        $('toggle').addEventListener('click', () => later(() => {
            const status = $('status');
            const on = status.dataset.state !== 'on';
            status.dataset.state = on ? 'on' : 'off';
            status.className = on ? 'active' : 'idle';
            status.textContent = on ? 'on' : 'off';
            $('banner').classList.toggle('hidden', on);
        }));

        $('focus').addEventListener('click', () => later(() => $('focus-target').focus()));

        $('open-popup').addEventListener('click', () => {
            window.open('/popup', '_blank');
        });

        $('popup-alert').addEventListener('click', () => {
            window.open('/popup?alert=1', '_blank');
        });

        $('show-alert').addEventListener('click', () => later(() => alert('Saved')));
    </script>
</body>
</html>
`))

var framePage = template.Must(template.New("frame").Parse(`<!DOCTYPE html>
<html>
<head><title>frame</title></head>
<body>
    <p id="inner">inside the frame</p>
</body>
</html>
`))

var popupPage = template.Must(template.New("popup").Parse(`<!DOCTYPE html>
<html>
<head><title>popup</title></head>
<body>
    <h1 id="popup-title">Popup</h1>
    <script>
        if (new URLSearchParams(location.search).has('alert')) {
            alert('Hello from popup');
        }
    </script>
</body>
</html>
`))
