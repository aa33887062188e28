package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Home lists the live lobbies and offers create and join forms.
func Home(lobbies []LobbySummary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, pageHead)
		_, _ = io.WriteString(w, `
      <header>
        <span class="tag">BombParty</span>
        <h1>Type a word before the bomb goes off.</h1>
      </header>

      <section class="panel">
        <h2>Create a lobby</h2>
        <form id="createForm">
          <input name="player" placeholder="Your name" autocomplete="name" required/>
          <button type="submit">Create lobby</button>
        </form>
        <div id="createResult" class="muted"></div>
      </section>

      <section class="panel">
        <h2>Join a lobby</h2>
        <form id="joinForm">
          <input name="code" placeholder="Join code" autocomplete="off" required/>
          <input name="player" placeholder="Your name" autocomplete="name" required/>
          <button type="submit">Join</button>
        </form>
        <div id="joinResult" class="muted"></div>
      </section>

      <section class="panel">
        <h2>Lobbies</h2>
        <ul id="lobbies" class="lobbies">`)
		if len(lobbies) == 0 {
			_, _ = io.WriteString(w, `<li class="muted">No lobbies yet.</li>`)
		}
		for _, lobby := range lobbies {
			_, _ = io.WriteString(w, `<li><a href="/lobbies/`)
			writeEscaped(w, lobby.ID)
			_, _ = io.WriteString(w, `">`)
			writeEscaped(w, lobby.JoinCode)
			_, _ = io.WriteString(w, `</a> led by `)
			writeEscaped(w, lobby.Leader)
			_, _ = io.WriteString(w, ` &middot; `+itoa(lobby.Players)+` players &middot; `)
			writeEscaped(w, phaseLabel(lobby.Phase))
			_, _ = io.WriteString(w, `</li>`)
		}
		_, _ = io.WriteString(w, `</ul>
      </section>

    <script>
      const remember = (name) => localStorage.setItem("bombparty.player", name);
      const post = async (url, body) => {
        const res = await fetch(url, {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify(body)
        });
        return { res, data: await res.json() };
      };

      document.getElementById("createForm").addEventListener("submit", async (event) => {
        event.preventDefault();
        const player = event.target.elements.player.value.trim();
        const out = document.getElementById("createResult");
        const { res, data } = await post("/api/lobbies", { player });
        if (!res.ok) {
          out.textContent = data.error || "Failed to create lobby.";
          return;
        }
        remember(player);
        window.location.href = "/lobbies/" + data.lobby_id;
      });

      document.getElementById("joinForm").addEventListener("submit", async (event) => {
        event.preventDefault();
        const code = event.target.elements.code.value.trim();
        const player = event.target.elements.player.value.trim();
        const out = document.getElementById("joinResult");
        const { res, data } = await post("/api/lobbies/" + encodeURIComponent(code) + "/join", { player });
        if (!res.ok) {
          out.textContent = data.error || "Failed to join lobby.";
          return;
        }
        remember(player);
        window.location.href = "/lobbies/" + data.id;
      });

      const list = document.getElementById("lobbies");
      const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws/home");
      ws.onmessage = (msg) => {
        const lobbies = JSON.parse(msg.data).lobbies || [];
        list.replaceChildren();
        if (lobbies.length === 0) {
          const li = document.createElement("li");
          li.className = "muted";
          li.textContent = "No lobbies yet.";
          list.appendChild(li);
        }
        for (const lobby of lobbies) {
          const li = document.createElement("li");
          const link = document.createElement("a");
          link.href = "/lobbies/" + lobby.id;
          link.textContent = lobby.join_code;
          li.appendChild(link);
          li.append(" led by " + lobby.leader + " · " + lobby.players + " players · " + lobby.phase);
          list.appendChild(li);
        }
      };
    </script>`)
		_, err := io.WriteString(w, pageFoot)
		return err
	})
}
