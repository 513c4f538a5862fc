// Package host provides the host object and host types that scripts run by
// the treewalk command can reach.
//
// The host object is an [App], bound to the script global "host". Its Scene
// records the boxes and cameras a script adds, standing in for a rendering
// engine's scene graph, and its Env stages changes to PATH-style variables
// without touching the process environment. App.AddBox and App.AddCamera
// take plain coordinates for scripts that do not construct a Vector:
//
//	using Scene;
//	using Collections;
//
//	Main() {
//	  var scene = host.Scene;
//	  scene.AddCamera(new Vector(0, 5, -10), new Vector(0, 0, 0));
//	  var names = new List();
//	  for (i, 0, 4) {
//	    scene.AddBox(new Vector(i * 2.0, 0, 0), Math.Max(1, i));
//	    names.Add("box" + i);
//	  }
//	  host.Print(names.Join(", "));
//	  host.Env.Prepend("PATH", "/opt/scene/bin");
//	  return scene.Count;
//	}
//
// [Registry] returns a [lang.Registry] holding every type in this package.
package host
