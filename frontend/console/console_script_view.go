package console

// ConsoleScript posts console forms with fetch, swaps #console-body with the
// returned HTML and replaces the address bar with the canonical URL. Search
// input aborts the previous search request on every keystroke.
func ConsoleScript() string {
	return `<script>
(function () {
  function getCookie(name) {
    var prefix = name + "=";
    var parts = document.cookie ? document.cookie.split(";") : [];
    for (var i = 0; i < parts.length; i++) {
      var c = parts[i].trim();
      if (c.indexOf(prefix) === 0) return decodeURIComponent(c.substring(prefix.length));
    }
    return "";
  }

  var body = document.getElementById("console-body");
  var searchForm = document.getElementById("console-search");
  var searchInput = searchForm ? searchForm.querySelector("input[name='search']") : null;
  var addLabel = document.getElementById("console-add-label");
  var searchController = null;

  function apply(data, fromSearch) {
    if (data.url) {
      history.replaceState(null, "", data.url);
      body.setAttribute("data-href", data.url);
    }
    body.innerHTML = data.html;
    if (addLabel) addLabel.textContent = data.buttonText;
    if (!searchForm) return;
    searchForm.querySelector("input[name='tab']").value = data.tab;
    searchInput.placeholder = data.placeholder;
    if (!fromSearch) searchInput.value = data.search;
  }

  function send(action, params, signal) {
    return fetch(action, {
      method: "POST",
      body: params,
      credentials: "same-origin",
      signal: signal,
      headers: {
        "X-Console-Fetch": "1",
        "X-CSRF-Token": getCookie("X-CSRF-Token")
      }
    }).then(function (res) {
      if (!res.ok) throw new Error("console request failed: " + res.status);
      return res.json();
    });
  }

  function formParams(form, submitter) {
    var params = new URLSearchParams(new FormData(form));
    if (submitter && submitter.name) params.append(submitter.name, submitter.value);
    return params;
  }

  document.addEventListener("submit", function (ev) {
    var form = ev.target;
    if (!form.hasAttribute("data-console")) return;
    ev.preventDefault();
    var action = form.getAttribute("action");
    if (ev.submitter && ev.submitter.getAttribute("formaction")) {
      action = ev.submitter.getAttribute("formaction");
    }
    if (form === searchForm) {
      runSearch();
      return;
    }
    send(action, formParams(form, ev.submitter)).then(function (data) {
      apply(data, false);
    }).catch(function (err) {
      console.error(err);
    });
  });

  function runSearch() {
    if (searchController) searchController.abort();
    searchController = new AbortController();
    send(searchForm.getAttribute("action"), formParams(searchForm), searchController.signal).then(function (data) {
      apply(data, true);
    }).catch(function (err) {
      if (err.name !== "AbortError") console.error(err);
    });
  }

  if (searchInput) searchInput.addEventListener("input", runSearch);

  document.addEventListener("input", function (ev) {
    if (ev.target.id !== "role-name") return;
    var save = document.querySelector("[data-role-save]");
    if (save) save.disabled = ev.target.value.trim() === "";
  });

  var initial = body ? body.getAttribute("data-href") : "";
  if (initial) history.replaceState(null, "", initial);
})();
</script>`
}
