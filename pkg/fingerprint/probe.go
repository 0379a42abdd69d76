package fingerprint

// ProbeScript evaluates the probe battery in the page and returns one object.
// Each group guards its own failures so a single broken API never loses the
// rest of the record. The canvas group yields CanvasError when drawing fails.
const ProbeScript = `(() => {
  const guard = (fn, fallback) => { try { return fn(); } catch (e) { return fallback; } };
  return {
    webdriver: {
      present: navigator.webdriver,
      chromeDriver: window.chrome?.runtime !== undefined,
      permissions: navigator.permissions?.query !== undefined
    },
    automation: {
      selenium: window.document.$cdc_asdjflasutopfhvcZLmcfl_ !== undefined,
      domAutomation: window.domAutomation !== undefined,
      phantom: window._phantom !== undefined || window.callPhantom !== undefined,
      nightmare: window.__nightmare !== undefined
    },
    plugins: {
      count: navigator.plugins.length,
      list: Array.from(navigator.plugins).map(p => ({ name: p.name, description: p.description })),
      mimeTypes: navigator.mimeTypes.length
    },
    canvas: guard(() => {
      const c = document.createElement('canvas');
      const ctx = c.getContext('2d');
      ctx.textBaseline = 'top';
      ctx.font = '14px Arial';
      ctx.fillStyle = '#f60';
      ctx.fillRect(125, 1, 62, 20);
      ctx.fillStyle = '#069';
      ctx.fillText('botprobe canvas', 2, 15);
      return c.toDataURL().slice(-50);
    }, 'error'),
    webgl: guard(() => {
      const c = document.createElement('canvas');
      const gl = c.getContext('webgl') || c.getContext('experimental-webgl');
      if (!gl) return null;
      const dbg = gl.getExtension('WEBGL_debug_renderer_info');
      return {
        vendor: gl.getParameter(gl.VENDOR),
        renderer: gl.getParameter(gl.RENDERER),
        unmaskedVendor: dbg ? gl.getParameter(dbg.UNMASKED_VENDOR_WEBGL) : null,
        unmaskedRenderer: dbg ? gl.getParameter(dbg.UNMASKED_RENDERER_WEBGL) : null
      };
    }, 'error'),
    audio: guard(() => {
      const Ctx = window.AudioContext || window.webkitAudioContext;
      if (!Ctx) return null;
      const ctx = new Ctx();
      const osc = ctx.createOscillator();
      const analyser = ctx.createAnalyser();
      const gain = ctx.createGain();
      gain.gain.value = 0;
      osc.connect(analyser);
      analyser.connect(gain);
      gain.connect(ctx.destination);
      osc.start(0);
      const bins = analyser.frequencyBinCount.toString();
      ctx.close();
      return bins;
    }, 'error'),
    hardware: {
      screenResolution: screen.width + 'x' + screen.height,
      availableResolution: screen.availWidth + 'x' + screen.availHeight,
      colorDepth: screen.colorDepth,
      pixelDepth: screen.pixelDepth,
      hardwareConcurrency: navigator.hardwareConcurrency,
      deviceMemory: navigator.deviceMemory,
      maxTouchPoints: navigator.maxTouchPoints
    },
    browser: {
      userAgent: navigator.userAgent,
      language: navigator.language,
      languages: navigator.languages,
      platform: navigator.platform,
      vendor: navigator.vendor,
      cookieEnabled: navigator.cookieEnabled,
      doNotTrack: navigator.doNotTrack,
      productSub: navigator.productSub,
      appVersion: navigator.appVersion
    },
    timezone: {
      offset: new Date().getTimezoneOffset(),
      timezone: Intl.DateTimeFormat().resolvedOptions().timeZone,
      locale: Intl.DateTimeFormat().resolvedOptions().locale
    },
    window: {
      innerWidth: window.innerWidth,
      innerHeight: window.innerHeight,
      outerWidth: window.outerWidth,
      outerHeight: window.outerHeight,
      devicePixelRatio: window.devicePixelRatio
    },
    performance: {
      timeOrigin: performance.timeOrigin,
      timing: performance.timing ? {
        navigationStart: performance.timing.navigationStart,
        loadEventEnd: performance.timing.loadEventEnd
      } : null
    },
    permissions: {
      notificationsAPI: 'Notification' in window,
      geolocationAPI: 'geolocation' in navigator,
      storageAPI: 'storage' in navigator
    },
    mediaQueries: {
      anyHover: window.matchMedia('(any-hover: hover)').matches,
      anyPointer: window.matchMedia('(any-pointer: fine)').matches,
      prefersColorScheme: window.matchMedia('(prefers-color-scheme: dark)').matches ? 'dark' : 'light'
    },
    battery: 'getBattery' in navigator,
    connection: navigator.connection ? {
      effectiveType: navigator.connection.effectiveType,
      downlink: navigator.connection.downlink,
      rtt: navigator.connection.rtt,
      saveData: navigator.connection.saveData
    } : null
  };
})()`

// ProbeGroups lists the top-level keys ProbeScript produces, in order.
var ProbeGroups = []string{
	"webdriver", "automation", "plugins", "canvas", "webgl",
	"audio", "hardware", "browser", "timezone", "window",
	"performance", "permissions", "mediaQueries", "battery", "connection",
}
